package handlers

import (
	"fmt"
	"net/http"
	"time"

	"refiniti-ops-backend/pkg/config"
	"refiniti-ops-backend/pkg/middleware"
	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/store"
	"refiniti-ops-backend/pkg/utils"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	config *config.Config
	store  store.StoreInterface
	jwt    *utils.JWTService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, st store.StoreInterface) *AuthHandler {
	return &AuthHandler{
		config: cfg,
		store:  st,
		jwt:    utils.NewJWTService(cfg.JWTSecret),
	}
}

// HealthCheck 健康检查
// GET /api/health
func (h *AuthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(); err != nil {
		utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Store unavailable")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"status":      "ok",
		"environment": h.config.Environment,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

// Login 按邮箱建立会话（演示环境免密登录）
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.UserLoginRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Email == "" {
		utils.WriteBadRequestResponse(w, "Email is required")
		return
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Unknown account")
		return
	}

	// 停用账号拒绝登录
	if user.Status == models.UserSuspended {
		utils.WriteForbiddenResponse(w, "Account is suspended")
		return
	}

	accessToken, refreshToken, expiresIn, err := h.jwt.GenerateTokenPair(user, "")
	if err != nil {
		fmt.Printf("❌ Login: token generation failed: %v\n", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to create session")
		return
	}

	fmt.Printf("✅ Login: %s (%s)\n", user.Email, user.Role)
	utils.WriteSuccessResponse(w, models.UserLoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// RefreshToken 刷新访问令牌
// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		utils.WriteBadRequestResponse(w, "refresh_token is required")
		return
	}

	claims, err := h.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Invalid refresh token")
		return
	}

	user, err := h.store.GetUserByID(claims.UserID)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Account no longer exists")
		return
	}
	if user.Status == models.UserSuspended {
		utils.WriteForbiddenResponse(w, "Account is suspended")
		return
	}

	// 代管标记跨刷新保留
	accessToken, refreshToken, expiresIn, err := h.jwt.GenerateTokenPair(user, claims.ActorID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to refresh session")
		return
	}

	utils.WriteSuccessResponse(w, models.UserLoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// LoginAs 员工代管：以目标用户身份签发会话，token中保留真实操作者ID。
// 被停用的目标账号不可代管。
// POST /api/auth/login-as
func (h *AuthHandler) LoginAs(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !actor.IsStaff() {
		utils.WriteForbiddenResponse(w, "Only staff can impersonate users")
		return
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.UserID == "" {
		utils.WriteBadRequestResponse(w, "user_id is required")
		return
	}

	target, err := h.store.GetUserByID(req.UserID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "User not found")
		return
	}
	if target.Status == models.UserSuspended {
		utils.WriteForbiddenResponse(w, "Cannot impersonate a suspended user")
		return
	}

	// 已处于代管会话时保留最初的操作者，避免嵌套代管丢失来源
	actorID := middleware.GetActorIDFromContext(r.Context())
	if actorID == "" {
		actorID = actor.ID
	}

	accessToken, refreshToken, expiresIn, err := h.jwt.GenerateTokenPair(target, actorID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create impersonation session")
		return
	}

	fmt.Printf("✅ LoginAs: %s impersonating %s\n", actorID, target.Email)
	utils.WriteSuccessResponse(w, models.UserLoginResponse{
		User:         *target,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// Revert 退出代管，回到真实操作者的会话
// POST /api/auth/revert
func (h *AuthHandler) Revert(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	actorID := middleware.GetActorIDFromContext(r.Context())
	if actorID == "" {
		utils.WriteBadRequestResponse(w, "Not an impersonation session")
		return
	}

	actor, err := h.store.GetUserByID(actorID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Original account no longer exists")
		return
	}
	if actor.Status == models.UserSuspended {
		utils.WriteForbiddenResponse(w, "Original account is suspended")
		return
	}

	accessToken, refreshToken, expiresIn, err := h.jwt.GenerateTokenPair(actor, "")
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to restore session")
		return
	}

	utils.WriteSuccessResponse(w, models.UserLoginResponse{
		User:         *actor,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

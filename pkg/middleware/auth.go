package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"refiniti-ops-backend/pkg/config"
	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/store"
	"refiniti-ops-backend/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey 用于在context中存储用户信息的键
type ContextKey string

const (
	UserContextKey ContextKey = "user"
	// ActorContextKey 保存"Login As"会话背后的真实操作者ID（无代管时为空）
	ActorContextKey ContextKey = "actor_id"
)

// AuthMiddleware JWT认证中间件。
// token只携带ID/角色，完整的用户记录（姓名、当前状态、权限）
// 以store中的最新数据为准，被停用的账号即使持有有效token也会被拒绝。
func AuthMiddleware(cfg *config.Config, st store.StoreInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 从Authorization头获取token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.WriteUnauthorizedResponse(w, "Missing authorization header")
				return
			}

			// 检查Bearer前缀
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				utils.WriteUnauthorizedResponse(w, "Invalid authorization header format")
				return
			}

			claims, err := parseAccessClaims(cfg, tokenString)
			if err != nil {
				fmt.Printf("❌ Auth middleware: %v\n", err)
				utils.WriteUnauthorizedResponse(w, err.Error())
				return
			}

			// 以store中的当前记录为准（姓名/状态/权限可能在token签发后变更）
			user, err := st.GetUserByID(claims.UserID)
			if err != nil {
				utils.WriteUnauthorizedResponse(w, "Account no longer exists")
				return
			}
			if user.Status == models.UserSuspended {
				utils.WriteForbiddenResponse(w, "Account is suspended")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			if claims.ActorID != "" {
				ctx = context.WithValue(ctx, ActorContextKey, claims.ActorID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseAccessClaims 解析并校验access token
func parseAccessClaims(cfg *config.Config, tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	// 只接受access token
	if claims.Type != "access" {
		return nil, fmt.Errorf("invalid token type: %s", claims.Type)
	}
	if time.Now().Unix() > claims.Exp {
		return nil, fmt.Errorf("token expired")
	}
	return claims, nil
}

// GetUserFromContext 从context中获取用户信息
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}

// GetActorIDFromContext 返回代管会话的真实操作者ID（无代管返回空串）
func GetActorIDFromContext(ctx context.Context) string {
	if actorID, ok := ctx.Value(ActorContextKey).(string); ok {
		return actorID
	}
	return ""
}

// RequireUser 要求用户必须已认证的辅助函数
func RequireUser(ctx context.Context) (*models.User, error) {
	user, ok := GetUserFromContext(ctx)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not authenticated")
	}
	return user, nil
}

package handlers

import (
	"net/http"

	"refiniti-ops-backend/pkg/access"
	"refiniti-ops-backend/pkg/config"
	"refiniti-ops-backend/pkg/middleware"
	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/store"
	"refiniti-ops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// OrgHandler 组织与用户管理处理器
type OrgHandler struct {
	config *config.Config
	store  store.StoreInterface
}

// NewOrgHandler 创建组织处理器
func NewOrgHandler(cfg *config.Config, st store.StoreInterface) *OrgHandler {
	return &OrgHandler{config: cfg, store: st}
}

// ListOrganizations 列出当前用户可见的组织
// GET /api/orgs
func (h *OrgHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	orgs, err := h.store.ListOrganizations()
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list organizations")
		return
	}

	utils.WriteSuccessResponse(w, access.FilterOrganizations(user, orgs))
}

// GetOrganization 获取单个组织
// GET /api/orgs/{orgId}
func (h *OrgHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	orgID := chi.URLParam(r, "orgId")
	org, err := h.store.GetOrganization(orgID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Organization not found")
		return
	}

	// 客户只能访问自己的组织
	if user.Role == models.RoleClient && !org.HasMember(user.ID) {
		utils.WriteForbiddenResponse(w, "Access denied")
		return
	}

	utils.WriteSuccessResponse(w, org)
}

// CreateOrganization 创建客户组织
// POST /api/orgs
func (h *OrgHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditUsers) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	var req struct {
		Name     string `json:"name"`
		Industry string `json:"industry"`
		Logo     string `json:"logo"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.WriteBadRequestResponse(w, "Organization name is required")
		return
	}

	org := &models.Organization{
		Name:     req.Name,
		Industry: req.Industry,
		Logo:     req.Logo,
		Status:   models.OrgOnboarding,
	}
	if err := h.store.CreateOrganization(org); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create organization")
		return
	}

	utils.WriteCreatedResponse(w, org)
}

// UpdateOrganization 更新组织
// PUT /api/orgs/{orgId}
func (h *OrgHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditUsers) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	orgID := chi.URLParam(r, "orgId")
	org, err := h.store.GetOrganization(orgID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Organization not found")
		return
	}

	var req struct {
		Name              *string           `json:"name"`
		Industry          *string           `json:"industry"`
		Status            *models.OrgStatus `json:"status"`
		Logo              *string           `json:"logo"`
		AssignedEmployees []string          `json:"assigned_employees"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	// 部分更新：只覆盖请求中出现的字段
	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Industry != nil {
		org.Industry = *req.Industry
	}
	if req.Status != nil {
		org.Status = *req.Status
	}
	if req.Logo != nil {
		org.Logo = *req.Logo
	}
	if req.AssignedEmployees != nil {
		org.AssignedEmployees = req.AssignedEmployees
	}

	if err := h.store.UpdateOrganization(org); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to update organization")
		return
	}

	utils.WriteSuccessResponse(w, org)
}

// AddOrganizationUser 为组织添加客户用户
// POST /api/orgs/{orgId}/users
func (h *OrgHandler) AddOrganizationUser(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditUsers) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	var req struct {
		Name        string   `json:"name"`
		Email       string   `json:"email"`
		Phone       string   `json:"phone"`
		Permissions []string `json:"permissions"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		utils.WriteBadRequestResponse(w, "Name and email are required")
		return
	}

	// 邮箱全局唯一（跨员工与全部组织）
	if existing, _ := h.store.GetUserByEmail(req.Email); existing != nil {
		utils.WriteConflictResponse(w, "Email already in use")
		return
	}

	newUser := &models.User{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Permissions: req.Permissions,
	}
	if newUser.Permissions == nil {
		newUser.Permissions = []string{string(access.ViewDashboard)}
	}

	orgID := chi.URLParam(r, "orgId")
	if err := h.store.AddOrganizationUser(orgID, newUser); err != nil {
		utils.WriteNotFoundResponse(w, "Organization not found")
		return
	}

	utils.WriteCreatedResponse(w, newUser)
}

// ListTeamMembers 列出员工
// GET /api/team
func (h *OrgHandler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() {
		utils.WriteForbiddenResponse(w, "Access denied")
		return
	}

	members, err := h.store.ListTeamMembers()
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list team members")
		return
	}

	utils.WriteSuccessResponse(w, members)
}

// CreateTeamMember 创建员工账号
// POST /api/team
func (h *OrgHandler) CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if user.Role != models.RoleSuperAdmin {
		utils.WriteForbiddenResponse(w, "Only administrators can create team members")
		return
	}

	var req struct {
		Name        string          `json:"name"`
		Email       string          `json:"email"`
		Phone       string          `json:"phone"`
		Role        models.UserRole `json:"role"`
		Permissions []string        `json:"permissions"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		utils.WriteBadRequestResponse(w, "Name and email are required")
		return
	}
	if req.Role == "" || req.Role == models.RoleClient {
		utils.WriteBadRequestResponse(w, "Invalid staff role")
		return
	}

	if existing, _ := h.store.GetUserByEmail(req.Email); existing != nil {
		utils.WriteConflictResponse(w, "Email already in use")
		return
	}

	member := &models.User{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Role:        req.Role,
		Permissions: req.Permissions,
	}
	if member.Permissions == nil {
		member.Permissions = []string{}
	}
	if err := h.store.CreateTeamMember(member); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create team member")
		return
	}

	utils.WriteCreatedResponse(w, member)
}

// UpdateUser 更新用户（员工或客户用户）
// PUT /api/users/{userId}
func (h *OrgHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	userID := chi.URLParam(r, "userId")
	target, err := h.store.GetUserByID(userID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "User not found")
		return
	}

	// 本人可以改自己的资料，其余需要用户管理权限
	if actor.ID != target.ID && (!actor.IsStaff() || !access.Can(actor, access.EditUsers)) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Phone       *string  `json:"phone"`
		Permissions []string `json:"permissions"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if req.Name != nil {
		target.Name = *req.Name
	}
	if req.Phone != nil {
		target.Phone = *req.Phone
	}
	// 权限编辑需要管理权限，本人不能给自己提权
	if req.Permissions != nil {
		if !actor.IsStaff() || !access.Can(actor, access.EditUsers) {
			utils.WriteForbiddenResponse(w, "Cannot modify own permissions")
			return
		}
		target.Permissions = req.Permissions
	}

	if err := h.store.UpdateUser(target); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to update user")
		return
	}

	utils.WriteSuccessResponse(w, target)
}

// SetUserStatus 启用/停用用户账号
// PUT /api/users/{userId}/status
func (h *OrgHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !actor.IsStaff() || !access.Can(actor, access.EditUsers) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	userID := chi.URLParam(r, "userId")
	if userID == actor.ID {
		utils.WriteBadRequestResponse(w, "Cannot change own account status")
		return
	}

	var req struct {
		Status models.UserStatus `json:"status"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Status != models.UserActive && req.Status != models.UserSuspended {
		utils.WriteBadRequestResponse(w, "Invalid status")
		return
	}

	updated, err := h.store.SetUserStatus(userID, req.Status)
	if err != nil {
		utils.WriteNotFoundResponse(w, "User not found")
		return
	}

	utils.WriteSuccessResponse(w, updated)
}

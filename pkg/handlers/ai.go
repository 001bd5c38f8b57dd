package handlers

import (
	"net/http"

	"refiniti-ops-backend/pkg/access"
	"refiniti-ops-backend/pkg/ai"
	"refiniti-ops-backend/pkg/config"
	"refiniti-ops-backend/pkg/middleware"
	"refiniti-ops-backend/pkg/store"
	"refiniti-ops-backend/pkg/utils"
)

// AIHandler AI生成端点（策略生成等不绑定单一领域对象的操作）
type AIHandler struct {
	config  *config.Config
	store   store.StoreInterface
	gateway *ai.Gateway
}

// NewAIHandler 创建AI处理器
func NewAIHandler(cfg *config.Config, st store.StoreInterface, gw *ai.Gateway) *AIHandler {
	return &AIHandler{config: cfg, store: st, gateway: gw}
}

// GenerateStrategy 基于问卷生成营销策略
// POST /api/ai/strategy
func (h *AIHandler) GenerateStrategy(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.ViewMarketing) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	var req struct {
		ClientID string            `json:"client_id"`
		Answers  map[string]string `json:"answers"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if len(req.Answers) == 0 {
		utils.WriteBadRequestResponse(w, "answers are required")
		return
	}

	clientName := "the client"
	if req.ClientID != "" {
		if org, err := h.store.GetOrganization(req.ClientID); err == nil {
			clientName = org.Name
		}
	}

	strategy := h.gateway.GenerateMarketingStrategy(clientName, req.Answers)
	utils.WriteSuccessResponse(w, strategy)
}

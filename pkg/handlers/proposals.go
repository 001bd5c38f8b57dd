package handlers

import (
	"fmt"
	"net/http"

	"refiniti-ops-backend/pkg/access"
	"refiniti-ops-backend/pkg/ai"
	"refiniti-ops-backend/pkg/config"
	"refiniti-ops-backend/pkg/middleware"
	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/store"
	"refiniti-ops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// ProposalHandler 提案处理器
type ProposalHandler struct {
	config  *config.Config
	store   store.StoreInterface
	gateway *ai.Gateway
}

// NewProposalHandler 创建提案处理器
func NewProposalHandler(cfg *config.Config, st store.StoreInterface, gw *ai.Gateway) *ProposalHandler {
	return &ProposalHandler{config: cfg, store: st, gateway: gw}
}

// ListProposals 列出当前用户可见的提案
// GET /api/proposals
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	cols := h.store.Snapshot()
	utils.WriteSuccessResponse(w, access.FilterProposals(user, cols.Organizations, cols.Proposals))
}

// GetProposal 获取单个提案
// GET /api/proposals/{proposalId}
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	proposal, err := h.store.GetProposal(chi.URLParam(r, "proposalId"))
	if err != nil {
		utils.WriteNotFoundResponse(w, "Proposal not found")
		return
	}

	if user.Role == models.RoleClient {
		cols := h.store.Snapshot()
		org, ok := access.ResolveOrganization(user, cols.Organizations)
		if !ok || proposal.ClientID != org.ID {
			utils.WriteForbiddenResponse(w, "Access denied")
			return
		}
	}

	utils.WriteSuccessResponse(w, proposal)
}

// CreateProposal 创建提案草稿并同步生成结构化内容
// POST /api/proposals
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditProposals) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	var req struct {
		ClientID      string   `json:"client_id"`
		ClientName    string   `json:"client_name"`
		ClientEmail   string   `json:"client_email"`
		Services      []string `json:"services"`
		CustomDetails string   `json:"custom_details"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.ClientName == "" || len(req.Services) == 0 {
		utils.WriteBadRequestResponse(w, "client_name and services are required")
		return
	}

	// 客户名可以解析到已有组织（industry用于生成上下文），也允许针对潜在客户起草
	industry := ""
	if req.ClientID != "" {
		if org, err := h.store.GetOrganization(req.ClientID); err == nil {
			industry = org.Industry
		}
	}

	content := h.gateway.GenerateProposalContent(req.ClientName, industry, req.Services, req.CustomDetails)

	proposal := &models.Proposal{
		ClientID:      req.ClientID,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		Services:      req.Services,
		CustomDetails: req.CustomDetails,
		Content:       content,
		Status:        models.ProposalDraft,
	}
	// 预估金额从投资明细汇总，生成失败时保持为0
	for _, item := range content.Investment {
		proposal.EstimatedUpfront += item.CostInitial
		proposal.EstimatedRetainer += item.CostMonthly
	}

	if err := h.store.CreateProposal(proposal); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create proposal")
		return
	}

	fmt.Printf("✅ Proposal created: %s for %s\n", proposal.ID, proposal.ClientName)
	utils.WriteCreatedResponse(w, proposal)
}

// SendProposal 将提案发送给客户（Draft → Sent to Client）
// POST /api/proposals/{proposalId}/send
func (h *ProposalHandler) SendProposal(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditProposals) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	proposalID := chi.URLParam(r, "proposalId")
	proposal, err := h.store.GetProposal(proposalID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Proposal not found")
		return
	}
	if proposal.Status != models.ProposalDraft {
		utils.WriteConflictResponse(w, "Only draft proposals can be sent")
		return
	}

	updated, err := h.store.UpdateProposalStatus(proposalID, models.ProposalSentToClient)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to update proposal")
		return
	}

	utils.WriteSuccessResponse(w, updated)
}

// AcceptProposal 客户接受提案，派生Upfront草稿发票。
// 重复接受返回409（发票只派生一次）。
// POST /api/proposals/{proposalId}/accept
func (h *ProposalHandler) AcceptProposal(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	proposalID := chi.URLParam(r, "proposalId")
	proposal, err := h.store.GetProposal(proposalID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Proposal not found")
		return
	}

	// 客户只能接受自己组织的提案
	if user.Role == models.RoleClient {
		cols := h.store.Snapshot()
		org, ok := access.ResolveOrganization(user, cols.Organizations)
		if !ok || proposal.ClientID != org.ID {
			utils.WriteForbiddenResponse(w, "Access denied")
			return
		}
	}

	if proposal.Status == models.ProposalAccepted {
		utils.WriteConflictResponse(w, "Proposal already accepted")
		return
	}
	if proposal.Status != models.ProposalSentToClient {
		utils.WriteConflictResponse(w, "Proposal has not been sent to the client")
		return
	}

	invoice, err := h.store.AcceptProposal(proposalID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to accept proposal")
		return
	}

	fmt.Printf("✅ Proposal %s accepted, invoice %s drafted ($%.0f)\n", proposalID, invoice.ID, invoice.Amount)
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"proposal_id": proposalID,
		"status":      models.ProposalAccepted,
		"invoice":     invoice,
	})
}

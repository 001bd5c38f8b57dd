package handlers

import (
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

// TicketHandler 支持工单处理器
type TicketHandler struct {
	config  *config.Config
	store   store.StoreInterface
	gateway *ai.Gateway
}

// NewTicketHandler 创建工单处理器
func NewTicketHandler(cfg *config.Config, st store.StoreInterface, gw *ai.Gateway) *TicketHandler {
	return &TicketHandler{config: cfg, store: st, gateway: gw}
}

// ListTickets 列出当前用户可见的工单
// GET /api/tickets
func (h *TicketHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	cols := h.store.Snapshot()
	utils.WriteSuccessResponse(w, access.FilterTickets(user, cols.Organizations, cols.Tickets))
}

// GetTicket 获取单个工单（含消息线程）
// GET /api/tickets/{ticketId}
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	ticket, err := h.store.GetTicket(chi.URLParam(r, "ticketId"))
	if err != nil {
		utils.WriteNotFoundResponse(w, "Ticket not found")
		return
	}

	if user.Role == models.RoleClient {
		cols := h.store.Snapshot()
		org, ok := access.ResolveOrganization(user, cols.Organizations)
		if !ok || ticket.OrganizationName != org.Name {
			utils.WriteForbiddenResponse(w, "Access denied")
			return
		}
	}

	utils.WriteSuccessResponse(w, ticket)
}

// CreateTicket 开工单（客户为自己的组织，员工可代开）
// POST /api/tickets
func (h *TicketHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var req struct {
		Subject  string `json:"subject"`
		Priority string `json:"priority"`
		Message  string `json:"message"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Subject == "" {
		utils.WriteBadRequestResponse(w, "subject is required")
		return
	}

	// 工单归属于开单客户所在的组织
	orgName := ""
	if user.Role == models.RoleClient {
		cols := h.store.Snapshot()
		org, ok := access.ResolveOrganization(user, cols.Organizations)
		if !ok {
			utils.WriteForbiddenResponse(w, "No organization membership")
			return
		}
		orgName = org.Name
	}

	ticket := &models.SupportTicket{
		ClientID:         user.ID,
		ClientName:       user.Name,
		OrganizationName: orgName,
		Subject:          req.Subject,
		Priority:         req.Priority,
		Status:           models.TicketOpen,
	}
	if ticket.Priority == "" {
		ticket.Priority = "Medium"
	}
	if req.Message != "" {
		ticket.Messages = []models.TicketMessage{{
			SenderID:   user.ID,
			SenderName: user.Name,
			Text:       req.Message,
			IsAdmin:    user.IsStaff(),
		}}
	}

	if err := h.store.CreateTicket(ticket); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create ticket")
		return
	}

	utils.WriteCreatedResponse(w, ticket)
}

// AppendMessage 在工单线程中追加消息
// POST /api/tickets/{ticketId}/messages
func (h *TicketHandler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	ticketID := chi.URLParam(r, "ticketId")
	ticket, err := h.store.GetTicket(ticketID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Ticket not found")
		return
	}

	if user.Role == models.RoleClient {
		cols := h.store.Snapshot()
		org, ok := access.ResolveOrganization(user, cols.Organizations)
		if !ok || ticket.OrganizationName != org.Name {
			utils.WriteForbiddenResponse(w, "Access denied")
			return
		}
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Text == "" {
		utils.WriteBadRequestResponse(w, "text is required")
		return
	}

	updated, err := h.store.AppendTicketMessage(ticketID, models.TicketMessage{
		SenderID:   user.ID,
		SenderName: user.Name,
		Text:       req.Text,
		IsAdmin:    user.IsStaff(),
	})
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to append message")
		return
	}

	utils.WriteSuccessResponse(w, updated)
}

// SetTicketStatus 更新工单状态（员工操作）
// PUT /api/tickets/{ticketId}/status
func (h *TicketHandler) SetTicketStatus(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditSupport) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	var req struct {
		Status models.TicketStatus `json:"status"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Status != models.TicketOpen && req.Status != models.TicketResolved {
		utils.WriteBadRequestResponse(w, "Invalid status")
		return
	}

	updated, err := h.store.SetTicketStatus(chi.URLParam(r, "ticketId"), req.Status)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Ticket not found")
		return
	}

	utils.WriteSuccessResponse(w, updated)
}

// Chat 支持中心AI助手（单轮问答，不落库）
// POST /api/support/chat
func (h *TicketHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Message == "" {
		utils.WriteBadRequestResponse(w, "message is required")
		return
	}

	reply := h.gateway.ChatReply(req.Message)
	utils.WriteSuccessResponse(w, map[string]string{"reply": reply})
}

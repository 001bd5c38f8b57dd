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

// InvoiceHandler 发票处理器
type InvoiceHandler struct {
	config  *config.Config
	store   store.StoreInterface
	gateway *ai.Gateway
}

// NewInvoiceHandler 创建发票处理器
func NewInvoiceHandler(cfg *config.Config, st store.StoreInterface, gw *ai.Gateway) *InvoiceHandler {
	return &InvoiceHandler{config: cfg, store: st, gateway: gw}
}

// ListInvoices 列出当前用户可见的发票（客户不可见草稿）
// GET /api/invoices
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	cols := h.store.Snapshot()
	utils.WriteSuccessResponse(w, access.FilterInvoices(user, cols.Organizations, cols.Invoices))
}

// GetInvoice 获取单张发票
// GET /api/invoices/{invoiceId}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	invoice, err := h.store.GetInvoice(chi.URLParam(r, "invoiceId"))
	if err != nil {
		utils.WriteNotFoundResponse(w, "Invoice not found")
		return
	}

	if user.Role == models.RoleClient {
		cols := h.store.Snapshot()
		org, ok := access.ResolveOrganization(user, cols.Organizations)
		// 草稿对客户不可见，与列表口径一致
		if !ok || invoice.ClientName != org.Name || invoice.Status == models.InvoiceDraft {
			utils.WriteNotFoundResponse(w, "Invoice not found")
			return
		}
	}

	utils.WriteSuccessResponse(w, invoice)
}

// CreateInvoice 手工创建发票（不经提案派生）
// POST /api/invoices
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditFinance) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	var req struct {
		ClientName string                   `json:"client_name"`
		Type       models.InvoiceType       `json:"type"`
		DueDate    string                   `json:"due_date"`
		Terms      string                   `json:"terms"`
		Items      []models.InvoiceLineItem `json:"items"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.ClientName == "" || len(req.Items) == 0 {
		utils.WriteBadRequestResponse(w, "client_name and items are required")
		return
	}

	invoice := &models.Invoice{
		ClientName: req.ClientName,
		Type:       req.Type,
		Status:     models.InvoiceDraft,
		DueDate:    req.DueDate,
		Terms:      req.Terms,
		Items:      req.Items,
	}
	if invoice.Type == "" {
		invoice.Type = models.InvoiceUpfront
	}
	for _, item := range req.Items {
		invoice.Amount += item.Cost
	}

	if err := h.store.CreateInvoice(invoice); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create invoice")
		return
	}

	utils.WriteCreatedResponse(w, invoice)
}

// UpdateInvoiceStatus 推进发票状态（签发、回款）
// PUT /api/invoices/{invoiceId}/status
func (h *InvoiceHandler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditFinance) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	var req struct {
		Status models.InvoiceStatus `json:"status"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	switch req.Status {
	case models.InvoiceDraft, models.InvoicePending, models.InvoicePaid:
	default:
		utils.WriteBadRequestResponse(w, "Invalid status")
		return
	}

	updated, err := h.store.UpdateInvoiceStatus(chi.URLParam(r, "invoiceId"), req.Status)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Invoice not found")
		return
	}

	utils.WriteSuccessResponse(w, updated)
}

// GenerateInvoiceEmail 生成催款/签发邮件草稿
// POST /api/invoices/{invoiceId}/email
func (h *InvoiceHandler) GenerateInvoiceEmail(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.ViewFinance) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	invoice, err := h.store.GetInvoice(chi.URLParam(r, "invoiceId"))
	if err != nil {
		utils.WriteNotFoundResponse(w, "Invoice not found")
		return
	}

	draft := h.gateway.GenerateInvoiceEmail(invoice.ClientName, invoice.ID, invoice.Amount, invoice.DueDate)
	utils.WriteSuccessResponse(w, draft)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"refiniti-ops-backend/pkg/ai"
	"refiniti-ops-backend/pkg/config"
	customMiddleware "refiniti-ops-backend/pkg/middleware"
	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/store"
	"refiniti-ops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// offlineCompleter 模拟AI服务不可用，网关应始终落到兜底内容
type offlineCompleter struct{}

func (offlineCompleter) Complete(prompt string, wantJSON bool) (string, error) {
	return "", &ai.TransportError{Err: http.ErrHandlerTimeout}
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:    "development",
		Port:           "3000",
		JWTSecret:      "test-secret",
		GeminiModel:    "gemini-3-flash-preview",
		GeminiBaseURL:  "https://example.invalid",
		AllowedOrigins: []string{"*"},
	}
}

// newTestRouter 构建与生产一致的路由拓扑（去掉全局日志等噪音中间件）
func newTestRouter(st store.StoreInterface) *chi.Mux {
	cfg := testConfig()
	gateway := ai.NewGatewayWithCompleter(offlineCompleter{})

	authHandler := NewAuthHandler(cfg, st)
	orgHandler := NewOrgHandler(cfg, st)
	proposalHandler := NewProposalHandler(cfg, st, gateway)
	invoiceHandler := NewInvoiceHandler(cfg, st, gateway)
	projectHandler := NewProjectHandler(cfg, st, gateway)
	ticketHandler := NewTicketHandler(cfg, st, gateway)
	feedHandler := NewFeedHandler(cfg, st)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.AuthMiddleware(cfg, st))

			r.Post("/auth/login-as", authHandler.LoginAs)
			r.Post("/auth/revert", authHandler.Revert)

			r.Get("/orgs", orgHandler.ListOrganizations)
			r.Get("/invoices", invoiceHandler.ListInvoices)
			r.Put("/invoices/{invoiceId}/status", invoiceHandler.UpdateInvoiceStatus)
			r.Get("/proposals", proposalHandler.ListProposals)
			r.Post("/proposals/{proposalId}/accept", proposalHandler.AcceptProposal)
			r.Get("/tasks", projectHandler.ListTasks)
			r.Post("/tickets", ticketHandler.CreateTicket)
			r.Get("/feed", feedHandler.GetFeed)
		})
	})
	return router
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.APIError `json:"error"`
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func login(t *testing.T, router http.Handler, email string) models.UserLoginResponse {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	var resp models.UserLoginResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp
}

func TestLoginIssuesTokenPair(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	session := login(t, router, "admin@refiniti.ai")
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("missing tokens in login response")
	}
	if session.User.Role != models.RoleSuperAdmin {
		t.Errorf("role = %s, want super_admin", session.User.Role)
	}
}

func TestLoginRejectsUnknownAndSuspended(t *testing.T) {
	st := store.NewMemoryStore()
	router := newTestRouter(st)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@nowhere.com"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown account: status %d, want 401", rec.Code)
	}

	if _, err := st.SetUserStatus("c3", models.UserSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "jane@apex.com"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("suspended login: status %d, want 403 (%v)", rec.Code, env.Error)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	rec, _ := doJSON(t, router, http.MethodGet, "/api/invoices", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestClientInvoiceVisibility(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	session := login(t, router, "jane@apex.com")
	rec, env := doJSON(t, router, http.MethodGet, "/api/invoices", session.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}

	var invoices []models.Invoice
	if err := json.Unmarshal(env.Data, &invoices); err != nil {
		t.Fatalf("decode invoices: %v", err)
	}
	ids := map[string]bool{}
	for _, inv := range invoices {
		ids[inv.ID] = true
	}
	if !ids["INV-0024-A"] || !ids["INV-0024-B"] {
		t.Errorf("Apex invoices missing: %v", ids)
	}
	if ids["INV-0025-A"] {
		t.Error("foreign draft invoice visible to client")
	}
}

func TestInvoiceStatusRequiresFinancePermission(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	// Sarah没有edit_finance
	session := login(t, router, "sarah@refiniti.ai")
	rec, _ := doJSON(t, router, http.MethodPut, "/api/invoices/INV-0025-A/status", session.AccessToken,
		map[string]string{"status": "Pending"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}

	// 管理员可以签发
	admin := login(t, router, "admin@refiniti.ai")
	rec, env := doJSON(t, router, http.MethodPut, "/api/invoices/INV-0025-A/status", admin.AccessToken,
		map[string]string{"status": "Pending"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var inv models.Invoice
	if err := json.Unmarshal(env.Data, &inv); err != nil {
		t.Fatalf("decode invoice: %v", err)
	}
	if inv.IssueDate == "" {
		t.Error("issuing a draft must stamp the issue date")
	}
}

func TestAcceptProposalFlow(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	session := login(t, router, "john@apex.com")
	rec, env := doJSON(t, router, http.MethodPost, "/api/proposals/pr1/accept", session.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: status %d body %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Status  models.ProposalStatus `json:"status"`
		Invoice models.Invoice        `json:"invoice"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode accept result: %v", err)
	}
	if result.Status != models.ProposalAccepted {
		t.Errorf("status = %s, want Accepted", result.Status)
	}
	if result.Invoice.Amount != 5000 || result.Invoice.Type != models.InvoiceUpfront {
		t.Errorf("derived invoice = %+v", result.Invoice)
	}

	// 重复接受被拒绝，发票只派生一次
	rec, _ = doJSON(t, router, http.MethodPost, "/api/proposals/pr1/accept", session.AccessToken, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("second accept: status %d, want 409", rec.Code)
	}
}

func TestAcceptProposalForeignOrgDenied(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	// Zenith的客户不能接受Apex的提案
	session := login(t, router, "smith@zenith.com")
	rec, _ := doJSON(t, router, http.MethodPost, "/api/proposals/pr1/accept", session.AccessToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestLoginAsAndRevert(t *testing.T) {
	st := store.NewMemoryStore()
	router := newTestRouter(st)

	admin := login(t, router, "admin@refiniti.ai")

	// 代管John
	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/login-as", admin.AccessToken,
		map[string]string{"user_id": "c1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login-as: status %d body %s", rec.Code, rec.Body.String())
	}
	var impersonated models.UserLoginResponse
	if err := json.Unmarshal(env.Data, &impersonated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if impersonated.User.ID != "c1" {
		t.Errorf("impersonated user = %s, want c1", impersonated.User.ID)
	}

	// 代管会话按客户口径看数据
	rec, env = doJSON(t, router, http.MethodGet, "/api/orgs", impersonated.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("orgs: status %d", rec.Code)
	}
	var orgs []models.Organization
	if err := json.Unmarshal(env.Data, &orgs); err != nil {
		t.Fatalf("decode orgs: %v", err)
	}
	if len(orgs) != 1 || orgs[0].ID != "org1" {
		t.Errorf("impersonated session sees %d orgs, want only org1", len(orgs))
	}

	// 回到真实身份
	rec, env = doJSON(t, router, http.MethodPost, "/api/auth/revert", impersonated.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("revert: status %d body %s", rec.Code, rec.Body.String())
	}
	var reverted models.UserLoginResponse
	if err := json.Unmarshal(env.Data, &reverted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reverted.User.ID != "1" {
		t.Errorf("reverted user = %s, want 1", reverted.User.ID)
	}
}

func TestLoginAsGuards(t *testing.T) {
	st := store.NewMemoryStore()
	router := newTestRouter(st)

	// 客户不能代管
	client := login(t, router, "john@apex.com")
	rec, _ := doJSON(t, router, http.MethodPost, "/api/auth/login-as", client.AccessToken,
		map[string]string{"user_id": "c2"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("client login-as: status %d, want 403", rec.Code)
	}

	// 被停用的目标不可代管
	if _, err := st.SetUserStatus("c2", models.UserSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	admin := login(t, router, "admin@refiniti.ai")
	rec, _ = doJSON(t, router, http.MethodPost, "/api/auth/login-as", admin.AccessToken,
		map[string]string{"user_id": "c2"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("login-as suspended: status %d, want 403", rec.Code)
	}

	// 非代管会话revert是错误
	rec, _ = doJSON(t, router, http.MethodPost, "/api/auth/revert", admin.AccessToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("revert without impersonation: status %d, want 400", rec.Code)
	}
}

func TestFeedEndpointHonorsPreferences(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())
	admin := login(t, router, "admin@refiniti.ai")

	rec, env := doJSON(t, router, http.MethodGet, "/api/feed?invoices=false", admin.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed: status %d", rec.Code)
	}
	var entries []struct {
		ID     string `json:"id"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("feed empty for admin on seeded data")
	}
	for _, e := range entries {
		if e.Source == "invoice" {
			t.Errorf("invoice entry %s present with invoices=false", e.ID)
		}
	}
}

func TestCreateTicketBindsClientOrganization(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())
	session := login(t, router, "smith@zenith.com")

	rec, env := doJSON(t, router, http.MethodPost, "/api/tickets", session.AccessToken,
		map[string]string{"subject": "Portal slow", "priority": "Low", "message": "Pages take 10s to load."})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create ticket: status %d body %s", rec.Code, rec.Body.String())
	}

	var ticket models.SupportTicket
	if err := json.Unmarshal(env.Data, &ticket); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	if ticket.OrganizationName != "Zenith Health" {
		t.Errorf("organization = %q, want Zenith Health", ticket.OrganizationName)
	}
	if ticket.Status != models.TicketOpen {
		t.Errorf("status = %s, want Open", ticket.Status)
	}
	if len(ticket.Messages) != 1 || ticket.Messages[0].IsAdmin {
		t.Errorf("messages = %+v", ticket.Messages)
	}
}

package access

import (
	"testing"

	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/store"
)

func seededSnapshot(t *testing.T) (store.Collections, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	return s.Snapshot(), s
}

func userByEmail(t *testing.T, s *store.MemoryStore, email string) *models.User {
	t.Helper()
	u, err := s.GetUserByEmail(email)
	if err != nil {
		t.Fatalf("seed user %s missing: %v", email, err)
	}
	return u
}

func TestResolveOrganization(t *testing.T) {
	cols, s := seededSnapshot(t)

	jane := userByEmail(t, s, "jane@apex.com")
	org, ok := ResolveOrganization(jane, cols.Organizations)
	if !ok {
		t.Fatal("expected Jane to resolve to an organization")
	}
	if org.Name != "Apex Innovations" {
		t.Errorf("resolved to %q, want Apex Innovations", org.Name)
	}

	// 员工不属于任何客户组织
	admin := userByEmail(t, s, "admin@refiniti.ai")
	if _, ok := ResolveOrganization(admin, cols.Organizations); ok {
		t.Error("staff should not resolve to a client organization")
	}
}

func TestFilterOrganizations(t *testing.T) {
	cols, s := seededSnapshot(t)

	admin := userByEmail(t, s, "admin@refiniti.ai")
	if got := FilterOrganizations(admin, cols.Organizations); len(got) != len(cols.Organizations) {
		t.Errorf("staff sees %d orgs, want %d", len(got), len(cols.Organizations))
	}

	john := userByEmail(t, s, "john@apex.com")
	got := FilterOrganizations(john, cols.Organizations)
	if len(got) != 1 || got[0].ID != "org1" {
		t.Errorf("client sees %v, want only org1", got)
	}
}

func TestFilterInvoicesExcludesDraftsForClients(t *testing.T) {
	cols, s := seededSnapshot(t)

	jane := userByEmail(t, s, "jane@apex.com")
	got := FilterInvoices(jane, cols.Organizations, cols.Invoices)

	ids := map[string]bool{}
	for _, inv := range got {
		ids[inv.ID] = true
		if inv.Status == models.InvoiceDraft {
			t.Errorf("client can see draft invoice %s", inv.ID)
		}
		if inv.ClientName != "Apex Innovations" {
			t.Errorf("client can see foreign invoice %s (%s)", inv.ID, inv.ClientName)
		}
	}
	// Jane属于Apex：已付与已签发可见，Zenith的草稿不可见
	if !ids["INV-0024-A"] || !ids["INV-0024-B"] {
		t.Errorf("expected Apex invoices visible, got %v", ids)
	}
	if ids["INV-0025-A"] {
		t.Error("Zenith draft invoice must not be visible to an Apex client")
	}

	// 员工无过滤
	admin := userByEmail(t, s, "admin@refiniti.ai")
	if got := FilterInvoices(admin, cols.Organizations, cols.Invoices); len(got) != len(cols.Invoices) {
		t.Errorf("staff sees %d invoices, want %d", len(got), len(cols.Invoices))
	}
}

func TestFilterProposalsByOrganization(t *testing.T) {
	cols, s := seededSnapshot(t)

	smith := userByEmail(t, s, "smith@zenith.com")
	got := FilterProposals(smith, cols.Organizations, cols.Proposals)
	if len(got) != 1 || got[0].ID != "pr2" {
		t.Errorf("Zenith client sees %v, want only pr2", got)
	}
}

func TestFilterProjectsByMembership(t *testing.T) {
	cols, s := seededSnapshot(t)

	// 超级管理员可见全部
	admin := userByEmail(t, s, "admin@refiniti.ai")
	if got := FilterProjects(admin, cols.Organizations, cols.Projects); len(got) != len(cols.Projects) {
		t.Errorf("super_admin sees %d projects, want %d", len(got), len(cols.Projects))
	}

	// 普通员工仅可见成员项目：Sarah只在p1
	sarah := userByEmail(t, s, "sarah@refiniti.ai")
	got := FilterProjects(sarah, cols.Organizations, cols.Projects)
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("Sarah sees %v, want only p1", got)
	}

	// 销售角色同样按成员过滤：Mike在p1和p2
	mike := userByEmail(t, s, "mike@refiniti.ai")
	got = FilterProjects(mike, cols.Organizations, cols.Projects)
	if len(got) != 2 {
		t.Fatalf("Mike sees %d projects, want 2", len(got))
	}

	// 客户按组织过滤
	john := userByEmail(t, s, "john@apex.com")
	got = FilterProjects(john, cols.Organizations, cols.Projects)
	for _, p := range got {
		if p.ClientID != "org1" {
			t.Errorf("Apex client should not see project %s (org %s)", p.ID, p.ClientID)
		}
	}
}

func TestFilterTicketsByOrganizationName(t *testing.T) {
	cols, s := seededSnapshot(t)

	john := userByEmail(t, s, "john@apex.com")
	got := FilterTickets(john, cols.Organizations, cols.Tickets)
	if len(got) != 1 || got[0].ID != "TCK-1001" {
		t.Errorf("Apex client sees %v, want only TCK-1001", got)
	}
}

func TestFiltersDegradeToEmptyForOrphanClients(t *testing.T) {
	cols, _ := seededSnapshot(t)

	orphan := &models.User{ID: "ghost", Name: "Ghost", Role: models.RoleClient}
	if got := FilterOrganizations(orphan, cols.Organizations); len(got) != 0 {
		t.Errorf("orphan client sees %d orgs, want 0", len(got))
	}
	if got := FilterInvoices(orphan, cols.Organizations, cols.Invoices); len(got) != 0 {
		t.Errorf("orphan client sees %d invoices, want 0", len(got))
	}
	if got := FilterProjects(orphan, cols.Organizations, cols.Projects); len(got) != 0 {
		t.Errorf("orphan client sees %d projects, want 0", len(got))
	}
}

func TestCan(t *testing.T) {
	u := &models.User{Permissions: []string{"view_finance", "view_dashboard"}}
	if !Can(u, ViewFinance) {
		t.Error("expected view_finance capability")
	}
	if Can(u, EditFinance) {
		t.Error("unexpected edit_finance capability")
	}
	if Can(nil, ViewDashboard) {
		t.Error("nil user must have no capabilities")
	}
}

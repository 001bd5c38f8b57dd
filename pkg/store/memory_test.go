package store

import (
	"strings"
	"testing"
	"time"

	"refiniti-ops-backend/pkg/models"
)

func TestSeedDataPresent(t *testing.T) {
	s := NewMemoryStore()

	members, _ := s.ListTeamMembers()
	if len(members) != 3 {
		t.Errorf("seeded %d team members, want 3", len(members))
	}
	orgs, _ := s.ListOrganizations()
	if len(orgs) != 3 {
		t.Errorf("seeded %d organizations, want 3", len(orgs))
	}
	if _, err := s.GetUserByEmail("jane@apex.com"); err != nil {
		t.Errorf("expected seeded client user: %v", err)
	}
}

func TestAcceptProposalDerivesUpfrontInvoice(t *testing.T) {
	s := NewMemoryStore()

	before, _ := s.ListInvoices()
	invoice, err := s.AcceptProposal("pr1")
	if err != nil {
		t.Fatalf("AcceptProposal: %v", err)
	}

	// 提案状态翻转
	proposal, _ := s.GetProposal("pr1")
	if proposal.Status != models.ProposalAccepted {
		t.Errorf("proposal status = %s, want Accepted", proposal.Status)
	}

	// 仅正的costInitial入账：Foundation 5000，SEO月费不计
	if invoice.Amount != 5000 {
		t.Errorf("invoice amount = %.0f, want 5000", invoice.Amount)
	}
	if len(invoice.Items) != 1 || invoice.Items[0].Description != "Foundation Setup" {
		t.Errorf("invoice items = %v, want single Foundation Setup line", invoice.Items)
	}
	if invoice.Type != models.InvoiceUpfront {
		t.Errorf("invoice type = %s, want Upfront", invoice.Type)
	}
	if invoice.Status != models.InvoiceDraft {
		t.Errorf("invoice status = %s, want Draft", invoice.Status)
	}
	if invoice.ProposalID != "pr1" {
		t.Errorf("invoice proposal id = %s, want pr1", invoice.ProposalID)
	}
	if !strings.HasPrefix(invoice.ID, "INV-") {
		t.Errorf("invoice reference %q lacks INV- prefix", invoice.ID)
	}

	// 新发票置顶
	after, _ := s.ListInvoices()
	if len(after) != len(before)+1 {
		t.Errorf("invoice count = %d, want %d", len(after), len(before)+1)
	}
	if after[0].ID != invoice.ID {
		t.Errorf("new invoice not first in list: got %s", after[0].ID)
	}
}

func TestUpdateInvoiceStatusStampsIssueDate(t *testing.T) {
	s := NewMemoryStore()

	// 种子数据中的草稿发票没有签发日期
	draft, err := s.GetInvoice("INV-0025-A")
	if err != nil {
		t.Fatalf("seed draft invoice missing: %v", err)
	}
	if draft.IssueDate != "" {
		t.Fatalf("draft issue date = %q, want empty", draft.IssueDate)
	}

	updated, err := s.UpdateInvoiceStatus("INV-0025-A", models.InvoicePending)
	if err != nil {
		t.Fatalf("UpdateInvoiceStatus: %v", err)
	}
	if updated.Status != models.InvoicePending {
		t.Errorf("status = %s, want Pending", updated.Status)
	}
	if updated.IssueDate != time.Now().Format("2006-01-02") {
		t.Errorf("issue date = %q, want today", updated.IssueDate)
	}

	// Pending → Paid 不改签发日期
	paid, _ := s.UpdateInvoiceStatus("INV-0025-A", models.InvoicePaid)
	if paid.IssueDate != updated.IssueDate {
		t.Errorf("issue date changed on payment: %q -> %q", updated.IssueDate, paid.IssueDate)
	}
}

func TestSetUserStatusReachesOrgUsers(t *testing.T) {
	s := NewMemoryStore()

	updated, err := s.SetUserStatus("c3", models.UserSuspended)
	if err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}
	if updated.Status != models.UserSuspended {
		t.Errorf("status = %s, want Suspended", updated.Status)
	}

	// 再读确认持久到组织内嵌用户
	jane, _ := s.GetUserByID("c3")
	if jane.Status != models.UserSuspended {
		t.Errorf("re-read status = %s, want Suspended", jane.Status)
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	s := NewMemoryStore()

	task := &models.Task{ProjectID: "p1", ClientID: "org1", Title: "New task"}
	if err := s.CreateTask(task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID == "" {
		t.Error("task id not assigned")
	}
	if task.Status != models.TaskTodo {
		t.Errorf("default status = %s, want Todo", task.Status)
	}
	if task.Checklist == nil {
		t.Error("checklist not initialized")
	}
}

func TestListDriveChildren(t *testing.T) {
	s := NewMemoryStore()

	roots, err := s.ListDriveChildren(nil)
	if err != nil {
		t.Fatalf("ListDriveChildren: %v", err)
	}
	if len(roots) != 4 {
		t.Errorf("root has %d entries, want 4", len(roots))
	}

	parent := "13"
	kit, _ := s.ListDriveChildren(&parent)
	if len(kit) != 2 {
		t.Errorf("Social_Media_Kit has %d entries, want 2", len(kit))
	}
}

func TestSnapshotReturnsCopies(t *testing.T) {
	s := NewMemoryStore()

	cols := s.Snapshot()
	cols.Organizations[0].Name = "Mutated"

	orgs, _ := s.ListOrganizations()
	if orgs[0].Name == "Mutated" {
		t.Error("snapshot shares backing array with store")
	}
}

package feed

import (
	"strings"
	"testing"
	"time"

	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/store"
)

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func staffUser() *models.User {
	return &models.User{ID: "1", Name: "Varia Admin", Role: models.RoleSuperAdmin, Status: models.UserActive}
}

func clientUser() *models.User {
	return &models.User{ID: "c1", Name: "John Apex", Role: models.RoleClient, Status: models.UserActive}
}

func testCollections() store.Collections {
	day := func(days int) string { return testNow.AddDate(0, 0, days).Format("2006-01-02") }
	return store.Collections{
		Organizations: []models.Organization{
			{
				ID: "org1", Name: "Apex Innovations",
				Users: []models.User{{ID: "c1", Name: "John Apex", Role: models.RoleClient}},
			},
		},
		Tasks: []models.Task{
			// 到期在48小时窗口内，未完成
			{ID: "t-due", Title: "Hero Animation", Status: models.TaskInProgress, Assignee: "Sarah Designer", DueDate: day(1), ClientID: "org1"},
			// 到期临近但已完成，不应出现
			{ID: "t-done", Title: "SEO Audit", Status: models.TaskDone, Assignee: "Varia Admin", DueDate: day(1), ClientID: "org1"},
			// @提及当前用户
			{ID: "t-mention", Title: "Ad Creative", Description: "Banners @Varia Admin please review", Status: models.TaskTodo, DueDate: day(10), ClientID: "org1"},
		},
		Proposals: []models.Proposal{
			// 24小时前创建：新提案通知
			{ID: "pr-new", ClientID: "org1", ClientName: "Apex Innovations", Services: []string{"Web Dev"}, Status: models.ProposalSentToClient, CreatedAt: testNow.Add(-24 * time.Hour)},
			// 已接受的老提案：只有accepted通知
			{ID: "pr-old", ClientID: "org1", ClientName: "Apex Innovations", Services: []string{"SEO"}, Status: models.ProposalAccepted, CreatedAt: testNow.AddDate(0, 0, -10)},
		},
		Invoices: []models.Invoice{
			{ID: "INV-PAID", ClientName: "Apex Innovations", Amount: 5000, Status: models.InvoicePaid, IssueDate: day(-40)},
			{ID: "INV-NEW", ClientName: "Apex Innovations", Amount: 2500, Status: models.InvoicePending, IssueDate: day(-1)},
			{ID: "INV-DRAFT", ClientName: "Apex Innovations", Amount: 1200, Status: models.InvoiceDraft, IssueDate: ""},
		},
		Tickets: []models.SupportTicket{
			{ID: "TCK-1", OrganizationName: "Apex Innovations", Subject: "Login Issue", Priority: "High", Status: models.TicketOpen},
			{ID: "TCK-2", OrganizationName: "Apex Innovations", Subject: "Old Issue", Priority: "Low", Status: models.TicketResolved},
		},
	}
}

func entryIDs(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.ID] = e
	}
	return m
}

func TestBuildStaffSeesExpectedEntries(t *testing.T) {
	entries := Build(testNow, staffUser(), testCollections(), DefaultPreferences())
	byID := entryIDs(entries)

	for _, want := range []string{"np-pr-new", "ap-pr-old", "dl-t-due", "nt-t-mention", "ip-INV-PAID", "ni-INV-NEW", "dr-INV-DRAFT", "tk-TCK-1"} {
		if _, ok := byID[want]; !ok {
			t.Errorf("missing entry %s; got %v", want, keys(byID))
		}
	}
	for _, reject := range []string{"dl-t-done", "tk-TCK-2", "np-pr-old"} {
		if _, ok := byID[reject]; ok {
			t.Errorf("unexpected entry %s", reject)
		}
	}
}

func TestBuildTimestampRules(t *testing.T) {
	entries := Build(testNow, staffUser(), testCollections(), DefaultPreferences())
	byID := entryIDs(entries)

	// 新提案按业务时间排
	if got := byID["np-pr-new"].Timestamp; !got.Equal(testNow.Add(-24 * time.Hour)) {
		t.Errorf("new proposal timestamp = %v, want creation time", got)
	}
	// 已支付发票固定回退1小时
	if got := byID["ip-INV-PAID"].Timestamp; !got.Equal(testNow.Add(-time.Hour)) {
		t.Errorf("paid invoice timestamp = %v, want now-1h", got)
	}
	// 草稿发票前移100ms，浮在now之上
	if got := byID["dr-INV-DRAFT"].Timestamp; !got.Equal(testNow.Add(100 * time.Millisecond)) {
		t.Errorf("draft invoice timestamp = %v, want now+100ms", got)
	}
	// 到期提醒按重算时刻排
	if got := byID["dl-t-due"].Timestamp; !got.Equal(testNow) {
		t.Errorf("deadline timestamp = %v, want now", got)
	}
}

func TestBuildSortedDescending(t *testing.T) {
	entries := Build(testNow, staffUser(), testCollections(), DefaultPreferences())
	if len(entries) < 2 {
		t.Fatalf("expected multiple entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.After(entries[i-1].Timestamp) {
			t.Fatalf("entries not in descending order at %d: %v before %v", i, entries[i-1].Timestamp, entries[i].Timestamp)
		}
	}
	// 草稿发票通知在首位（唯一晚于now的时间戳）
	if entries[0].ID != "dr-INV-DRAFT" {
		t.Errorf("top entry = %s, want dr-INV-DRAFT", entries[0].ID)
	}
}

func TestBuildPreferenceGating(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Invoices = false
	entries := Build(testNow, staffUser(), testCollections(), prefs)

	for _, e := range entries {
		if e.Source == SourceInvoices {
			t.Errorf("invoice entry %s present with invoices disabled", e.ID)
		}
	}
	// 其余来源不受影响
	byID := entryIDs(entries)
	if _, ok := byID["tk-TCK-1"]; !ok {
		t.Error("ticket entry missing; preference gating must be per-source")
	}
	if _, ok := byID["np-pr-new"]; !ok {
		t.Error("proposal entry missing; preference gating must be per-source")
	}
}

func TestBuildDeadlineIgnoresAssignee(t *testing.T) {
	// 到期提醒不看指派人：管理员也会看到Sarah的任务到期
	entries := Build(testNow, staffUser(), testCollections(), DefaultPreferences())
	byID := entryIDs(entries)
	e, ok := byID["dl-t-due"]
	if !ok {
		t.Fatal("deadline entry missing")
	}
	if !strings.Contains(e.Description, "Hero Animation") {
		t.Errorf("unexpected description %q", e.Description)
	}
}

func TestBuildClientInvoiceScoping(t *testing.T) {
	cols := testCollections()
	// 另一组织的发票混入集合
	cols.Invoices = append(cols.Invoices, models.Invoice{
		ID: "INV-FOREIGN", ClientName: "Zenith Health", Amount: 900, Status: models.InvoicePaid,
	})

	entries := Build(testNow, clientUser(), cols, DefaultPreferences())
	byID := entryIDs(entries)

	if _, ok := byID["ip-INV-FOREIGN"]; ok {
		t.Error("client sees another organization's invoice in feed")
	}
	// 客户不可见草稿发票通知
	if _, ok := byID["dr-INV-DRAFT"]; ok {
		t.Error("client sees draft invoice review entry")
	}
	if _, ok := byID["ip-INV-PAID"]; !ok {
		t.Error("client missing own paid-invoice entry")
	}
}

func TestBuildAssignmentMatchesNameOrMention(t *testing.T) {
	sarah := &models.User{ID: "2", Name: "Sarah Designer", Role: models.RoleEmployee}
	entries := Build(testNow, sarah, testCollections(), DefaultPreferences())
	byID := entryIDs(entries)

	if _, ok := byID["nt-t-due"]; !ok {
		t.Error("assignee should get a task assignment entry")
	}
	if _, ok := byID["nt-t-mention"]; ok {
		t.Error("mention entry should only target the mentioned user")
	}
}

func keys(m map[string]Entry) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

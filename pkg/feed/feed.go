package feed

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"refiniti-ops-backend/pkg/access"
	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/store"
)

// EntrySource 通知来源（与偏好开关一一对应）
type EntrySource string

const (
	SourceProposals EntrySource = "proposal"
	SourceTasks     EntrySource = "task"
	SourceInvoices  EntrySource = "invoice"
	SourceTickets   EntrySource = "ticket"
)

// Entry 是动态Feed中的一条通知
type Entry struct {
	ID          string      `json:"id"`
	Source      EntrySource `json:"source"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	LinkView    string      `json:"link_view"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Preferences 每个来源的布尔开关
type Preferences struct {
	Proposals bool `json:"proposals"`
	Invoices  bool `json:"invoices"`
	Tasks     bool `json:"tasks"`
	Tickets   bool `json:"tickets"`
}

// DefaultPreferences 默认全部开启
func DefaultPreferences() Preferences {
	return Preferences{Proposals: true, Invoices: true, Tasks: true, Tickets: true}
}

// recentWindow: "最近创建/签发"与"即将到期"判断共用的2天窗口
const recentWindow = 48 * time.Hour

// Build 从当前集合快照重新计算动态Feed。
// 纯函数：相同输入产出相同结果；每次调用从零重算，条目不跨调用去重。
// 时间戳规则（决定排序位置）：
//   - 新建提案/新签发发票按业务时间排；
//   - 任务指派、到期提醒、开放工单按重算时刻排（避免随日期临近浮顶）；
//   - 已支付发票固定回退1小时；草稿发票前移100ms以浮在同刻条目之上。
func Build(now time.Time, user *models.User, cols store.Collections, prefs Preferences) []Entry {
	var entries []Entry

	// 1. 提案
	if prefs.Proposals {
		for _, p := range access.FilterProposals(user, cols.Organizations, cols.Proposals) {
			if p.CreatedAt.After(now.Add(-recentWindow)) {
				entries = append(entries, Entry{
					ID:          "np-" + p.ID,
					Source:      SourceProposals,
					Title:       "New Proposal Created",
					Description: fmt.Sprintf("%s - %s", p.ClientName, strings.Join(p.Services, ", ")),
					LinkView:    "proposals",
					Timestamp:   p.CreatedAt,
				})
			}
			if p.Status == models.ProposalAccepted {
				entries = append(entries, Entry{
					ID:          "ap-" + p.ID,
					Source:      SourceProposals,
					Title:       "Proposal Accepted",
					Description: fmt.Sprintf("%s accepted proposal", p.ClientName),
					LinkView:    "proposals",
					Timestamp:   p.CreatedAt,
				})
			}
		}
	}

	// 2. 任务（扫描全部任务，不做角色过滤）
	if prefs.Tasks {
		for _, t := range cols.Tasks {
			if t.Assignee == user.Name || strings.Contains(t.Description, "@"+user.Name) {
				entries = append(entries, Entry{
					ID:          "nt-" + t.ID,
					Source:      SourceTasks,
					Title:       "Task Assignment",
					Description: fmt.Sprintf("%s assigned to you", t.Title),
					LinkView:    "operations",
					Timestamp:   now,
				})
			}
			if due, err := time.Parse("2006-01-02", t.DueDate); err == nil {
				if due.After(now) && due.Before(now.Add(recentWindow)) && t.Status != models.TaskDone {
					entries = append(entries, Entry{
						ID:          "dl-" + t.ID,
						Source:      SourceTasks,
						Title:       "Approaching Deadline",
						Description: fmt.Sprintf("%s due soon", t.Title),
						LinkView:    "operations",
						Timestamp:   now,
					})
				}
			}
		}
	}

	// 3. 发票（客户视角走过滤器，员工视角看全部）
	if prefs.Invoices {
		invoices := cols.Invoices
		if user.Role == models.RoleClient {
			invoices = access.FilterInvoices(user, cols.Organizations, cols.Invoices)
		}
		for _, inv := range invoices {
			switch inv.Status {
			case models.InvoicePaid:
				entries = append(entries, Entry{
					ID:          "ip-" + inv.ID,
					Source:      SourceInvoices,
					Title:       "Invoice Paid",
					Description: fmt.Sprintf("#%s - $%.0f", inv.ID, inv.Amount),
					LinkView:    "invoices",
					Timestamp:   now.Add(-time.Hour),
				})
			case models.InvoicePending:
				if issued, err := time.Parse("2006-01-02", inv.IssueDate); err == nil {
					if issued.After(now.Add(-recentWindow)) {
						entries = append(entries, Entry{
							ID:          "ni-" + inv.ID,
							Source:      SourceInvoices,
							Title:       "New Invoice Issued",
							Description: fmt.Sprintf("#%s to %s", inv.ID, inv.ClientName),
							LinkView:    "invoices",
							Timestamp:   issued,
						})
					}
				}
			case models.InvoiceDraft:
				if user.Role != models.RoleClient {
					entries = append(entries, Entry{
						ID:          "dr-" + inv.ID,
						Source:      SourceInvoices,
						Title:       "Invoice Needs Review",
						Description: fmt.Sprintf("#%s for %s generated. Review before sending.", inv.ID, inv.ClientName),
						LinkView:    "invoices",
						Timestamp:   now.Add(100 * time.Millisecond),
					})
				}
			}
		}
	}

	// 4. 工单
	if prefs.Tickets {
		for _, t := range access.FilterTickets(user, cols.Organizations, cols.Tickets) {
			if t.Status == models.TicketOpen {
				entries = append(entries, Entry{
					ID:          "tk-" + t.ID,
					Source:      SourceTickets,
					Title:       "New Support Ticket",
					Description: fmt.Sprintf("%s (%s)", t.Subject, t.Priority),
					LinkView:    "support_center",
					Timestamp:   now,
				})
			}
		}
	}

	// 按时间戳严格降序；相同时间戳保持生成顺序
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries
}

package access

import (
	"refiniti-ops-backend/pkg/models"
)

// 角色过滤器：给定当前用户与完整集合，返回该用户可见的子集。
// 纯函数，不访问存储；查找失败一律退化为空集合而非错误。

// ResolveOrganization 通过成员关系解析客户用户所属的组织
func ResolveOrganization(user *models.User, orgs []models.Organization) (*models.Organization, bool) {
	if user == nil {
		return nil, false
	}
	for i := range orgs {
		if orgs[i].HasMember(user.ID) {
			return &orgs[i], true
		}
	}
	return nil, false
}

// FilterOrganizations 客户仅能看到自己的组织；员工可见全部
func FilterOrganizations(user *models.User, orgs []models.Organization) []models.Organization {
	if user.Role != models.RoleClient {
		return orgs
	}
	org, ok := ResolveOrganization(user, orgs)
	if !ok {
		return []models.Organization{}
	}
	return []models.Organization{*org}
}

// FilterProposals 提案按组织ID过滤
func FilterProposals(user *models.User, orgs []models.Organization, proposals []models.Proposal) []models.Proposal {
	if user.Role != models.RoleClient {
		return proposals
	}
	org, ok := ResolveOrganization(user, orgs)
	if !ok {
		return []models.Proposal{}
	}
	filtered := []models.Proposal{}
	for _, p := range proposals {
		if p.ClientID == org.ID {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FilterInvoices 发票按组织名称过滤；客户永远看不到未签发的草稿
func FilterInvoices(user *models.User, orgs []models.Organization, invoices []models.Invoice) []models.Invoice {
	if user.Role != models.RoleClient {
		return invoices
	}
	org, ok := ResolveOrganization(user, orgs)
	if !ok {
		return []models.Invoice{}
	}
	filtered := []models.Invoice{}
	for _, inv := range invoices {
		if inv.ClientName == org.Name && inv.Status != models.InvoiceDraft {
			filtered = append(filtered, inv)
		}
	}
	return filtered
}

// FilterTickets 工单按组织名称过滤
func FilterTickets(user *models.User, orgs []models.Organization, tickets []models.SupportTicket) []models.SupportTicket {
	if user.Role != models.RoleClient {
		return tickets
	}
	org, ok := ResolveOrganization(user, orgs)
	if !ok {
		return []models.SupportTicket{}
	}
	filtered := []models.SupportTicket{}
	for _, t := range tickets {
		if t.OrganizationName == org.Name {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// FilterProjects 客户按组织过滤；超级管理员可见全部；
// 其余员工角色仅可见成员列表中包含自己（姓名或ID）的项目
func FilterProjects(user *models.User, orgs []models.Organization, projects []models.Project) []models.Project {
	if user.Role == models.RoleClient {
		org, ok := ResolveOrganization(user, orgs)
		if !ok {
			return []models.Project{}
		}
		filtered := []models.Project{}
		for _, p := range projects {
			if p.ClientID == org.ID {
				filtered = append(filtered, p)
			}
		}
		return filtered
	}
	if user.Role == models.RoleSuperAdmin {
		return projects
	}
	filtered := []models.Project{}
	for _, p := range projects {
		if containsMember(p.Members, user.Name) || containsMember(p.Members, user.ID) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FilterTasks 客户按组织过滤任务；员工可见全部
func FilterTasks(user *models.User, orgs []models.Organization, tasks []models.Task) []models.Task {
	if user.Role != models.RoleClient {
		return tasks
	}
	org, ok := ResolveOrganization(user, orgs)
	if !ok {
		return []models.Task{}
	}
	filtered := []models.Task{}
	for _, t := range tasks {
		if t.ClientID == org.ID {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func containsMember(members []string, value string) bool {
	for _, m := range members {
		if m == value {
			return true
		}
	}
	return false
}

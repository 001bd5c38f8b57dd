package store

import (
	"refiniti-ops-backend/pkg/models"
)

// StoreInterface 定义会话状态存储接口。
// 所有集合仅在进程内存中存活，随会话结束丢弃（无持久化）。
type StoreInterface interface {
	// 用户管理（员工与客户用户）
	ListTeamMembers() ([]models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateTeamMember(user *models.User) error
	UpdateUser(user *models.User) error
	SetUserStatus(id string, status models.UserStatus) (*models.User, error)

	// Organizations
	ListOrganizations() ([]models.Organization, error)
	GetOrganization(id string) (*models.Organization, error)
	CreateOrganization(org *models.Organization) error
	UpdateOrganization(org *models.Organization) error
	AddOrganizationUser(orgID string, user *models.User) error

	// Projects & Tasks
	ListProjects() ([]models.Project, error)
	GetProject(id string) (*models.Project, error)
	CreateProject(p *models.Project) error
	UpdateProject(p *models.Project) error
	ListTasks() ([]models.Task, error)
	CreateTask(t *models.Task) error
	UpdateTask(t *models.Task) error
	DeleteTask(id string) error

	// Proposals
	ListProposals() ([]models.Proposal, error)
	GetProposal(id string) (*models.Proposal, error)
	CreateProposal(p *models.Proposal) error
	UpdateProposalStatus(id string, status models.ProposalStatus) (*models.Proposal, error)
	// AcceptProposal 将提案置为 Accepted，并派生唯一一张 Upfront 草稿发票
	AcceptProposal(id string) (*models.Invoice, error)

	// Invoices
	ListInvoices() ([]models.Invoice, error)
	GetInvoice(id string) (*models.Invoice, error)
	CreateInvoice(inv *models.Invoice) error
	UpdateInvoiceStatus(id string, status models.InvoiceStatus) (*models.Invoice, error)

	// Support Tickets
	ListTickets() ([]models.SupportTicket, error)
	GetTicket(id string) (*models.SupportTicket, error)
	CreateTicket(t *models.SupportTicket) error
	AppendTicketMessage(ticketID string, msg models.TicketMessage) (*models.SupportTicket, error)
	SetTicketStatus(id string, status models.TicketStatus) (*models.SupportTicket, error)

	// Drive（文件夹树）
	ListDriveItems() ([]models.DriveItem, error)
	ListDriveChildren(parentID *string) ([]models.DriveItem, error)
	CreateDriveItem(item *models.DriveItem) error
	DeleteDriveItem(id string) error

	// Snapshot 返回全部集合的只读拷贝（供过滤器与动态Feed使用）
	Snapshot() Collections

	// 健康检查
	HealthCheck() error
}

// Collections 是一次性读出的全部领域集合快照
type Collections struct {
	Organizations []models.Organization
	TeamMembers   []models.User
	Projects      []models.Project
	Tasks         []models.Task
	Proposals     []models.Proposal
	Invoices      []models.Invoice
	Tickets       []models.SupportTicket
	DriveItems    []models.DriveItem
}

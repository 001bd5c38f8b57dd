package store

import (
	"fmt"
	"sync"
	"time"

	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/utils"

	"github.com/google/uuid"
)

// MemoryStore 进程内存存储实现。
// 读写通过RWMutex保护（HTTP处理器并发执行），变更以整体替换集合元素的方式生效。
// 删除不做级联（如删除组织会留下孤儿项目）。
type MemoryStore struct {
	mu sync.RWMutex

	organizations []models.Organization
	teamMembers   []models.User
	projects      []models.Project
	tasks         []models.Task
	proposals     []models.Proposal
	invoices      []models.Invoice
	tickets       []models.SupportTicket
	driveItems    []models.DriveItem
}

// NewMemoryStore 创建带示例数据的内存存储
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	seed(s, time.Now())
	return s
}

// Shared store (one per process: the session state)
var (
	sharedStore *MemoryStore
	storeOnce   sync.Once
)

// GetShared 返回进程级共享存储，首次调用时初始化示例数据
func GetShared() *MemoryStore {
	storeOnce.Do(func() {
		sharedStore = NewMemoryStore()
	})
	return sharedStore
}

// ==== Users ====

// ListTeamMembers 列出全部员工
func (s *MemoryStore) ListTeamMembers() ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.teamMembers...), nil
}

// GetUserByID 按ID查找用户（先员工，后各组织的客户用户）
func (s *MemoryStore) GetUserByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u models.User) bool { return u.ID == id })
}

// GetUserByEmail 按邮箱查找用户
func (s *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

func (s *MemoryStore) findUser(match func(models.User) bool) (*models.User, error) {
	for _, u := range s.teamMembers {
		if match(u) {
			user := u
			return &user, nil
		}
	}
	for _, org := range s.organizations {
		for _, u := range org.Users {
			if match(u) {
				user := u
				return &user, nil
			}
		}
	}
	return nil, fmt.Errorf("user not found")
}

// CreateTeamMember 创建员工账号
func (s *MemoryStore) CreateTeamMember(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Status == "" {
		user.Status = models.UserActive
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	s.teamMembers = append(s.teamMembers, *user)
	return nil
}

// UpdateUser 更新用户（员工或客户用户），按ID整体替换
func (s *MemoryStore) UpdateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.UpdatedAt = time.Now()
	for i, u := range s.teamMembers {
		if u.ID == user.ID {
			s.teamMembers[i] = *user
			return nil
		}
	}
	for oi, org := range s.organizations {
		for ui, u := range org.Users {
			if u.ID == user.ID {
				s.organizations[oi].Users[ui] = *user
				return nil
			}
		}
	}
	return fmt.Errorf("user not found")
}

// SetUserStatus 修改用户状态（Active/Suspended）
func (s *MemoryStore) SetUserStatus(id string, status models.UserStatus) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.teamMembers {
		if u.ID == id {
			s.teamMembers[i].Status = status
			s.teamMembers[i].UpdatedAt = time.Now()
			user := s.teamMembers[i]
			return &user, nil
		}
	}
	for oi, org := range s.organizations {
		for ui, u := range org.Users {
			if u.ID == id {
				s.organizations[oi].Users[ui].Status = status
				s.organizations[oi].Users[ui].UpdatedAt = time.Now()
				user := s.organizations[oi].Users[ui]
				return &user, nil
			}
		}
	}
	return nil, fmt.Errorf("user not found")
}

// ==== Organizations ====

// ListOrganizations 列出全部组织
func (s *MemoryStore) ListOrganizations() ([]models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Organization(nil), s.organizations...), nil
}

// GetOrganization 按ID获取组织
func (s *MemoryStore) GetOrganization(id string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, org := range s.organizations {
		if org.ID == id {
			o := org
			return &o, nil
		}
	}
	return nil, fmt.Errorf("organization not found")
}

// CreateOrganization 创建组织
func (s *MemoryStore) CreateOrganization(org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if org.ID == "" {
		org.ID = uuid.New().String()
	}
	if org.Status == "" {
		org.Status = models.OrgOnboarding
	}
	if org.Users == nil {
		org.Users = []models.User{}
	}
	if org.AssignedEmployees == nil {
		org.AssignedEmployees = []string{}
	}
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()

	s.organizations = append(s.organizations, *org)
	return nil
}

// UpdateOrganization 更新组织
func (s *MemoryStore) UpdateOrganization(org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.organizations {
		if o.ID == org.ID {
			org.UpdatedAt = time.Now()
			s.organizations[i] = *org
			return nil
		}
	}
	return fmt.Errorf("organization not found")
}

// AddOrganizationUser 为组织添加客户用户
func (s *MemoryStore) AddOrganizationUser(orgID string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, org := range s.organizations {
		if org.ID == orgID {
			if user.ID == "" {
				user.ID = uuid.New().String()
			}
			user.Role = models.RoleClient
			if user.Status == "" {
				user.Status = models.UserActive
			}
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			s.organizations[i].Users = append(s.organizations[i].Users, *user)
			s.organizations[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("organization not found")
}

// ==== Projects & Tasks ====

// ListProjects 列出全部项目
func (s *MemoryStore) ListProjects() ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Project(nil), s.projects...), nil
}

// GetProject 按ID获取项目
func (s *MemoryStore) GetProject(id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			project := p
			return &project, nil
		}
	}
	return nil, fmt.Errorf("project not found")
}

// CreateProject 创建项目
func (s *MemoryStore) CreateProject(p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Members == nil {
		p.Members = []string{}
	}
	if p.Status == "" {
		p.Status = "Active"
	}
	s.projects = append(s.projects, *p)
	return nil
}

// UpdateProject 更新项目
func (s *MemoryStore) UpdateProject(p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.projects {
		if existing.ID == p.ID {
			s.projects[i] = *p
			return nil
		}
	}
	return fmt.Errorf("project not found")
}

// ListTasks 列出全部任务
func (s *MemoryStore) ListTasks() ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Task(nil), s.tasks...), nil
}

// CreateTask 创建任务
func (s *MemoryStore) CreateTask(t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Checklist == nil {
		t.Checklist = []models.ChecklistItem{}
	}
	s.tasks = append(s.tasks, *t)
	return nil
}

// UpdateTask 更新任务
func (s *MemoryStore) UpdateTask(t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.tasks {
		if existing.ID == t.ID {
			s.tasks[i] = *t
			return nil
		}
	}
	return fmt.Errorf("task not found")
}

// DeleteTask 删除任务
func (s *MemoryStore) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task not found")
}

// ==== Proposals ====

// ListProposals 列出全部提案
func (s *MemoryStore) ListProposals() ([]models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Proposal(nil), s.proposals...), nil
}

// GetProposal 按ID获取提案
func (s *MemoryStore) GetProposal(id string) (*models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.proposals {
		if p.ID == id {
			proposal := p
			return &proposal, nil
		}
	}
	return nil, fmt.Errorf("proposal not found")
}

// CreateProposal 创建提案
func (s *MemoryStore) CreateProposal(p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = models.ProposalDraft
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.proposals = append(s.proposals, *p)
	return nil
}

// UpdateProposalStatus 更新提案状态
func (s *MemoryStore) UpdateProposalStatus(id string, status models.ProposalStatus) (*models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.proposals {
		if p.ID == id {
			s.proposals[i].Status = status
			proposal := s.proposals[i]
			return &proposal, nil
		}
	}
	return nil, fmt.Errorf("proposal not found")
}

// AcceptProposal 接受提案并派生发票。
// 发票仅包含costInitial为正的投资项，金额为其合计；
// 初始状态为Draft（待员工复核后再签发）。
func (s *MemoryStore) AcceptProposal(id string) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var proposal *models.Proposal
	for i, p := range s.proposals {
		if p.ID == id {
			s.proposals[i].Status = models.ProposalAccepted
			proposal = &s.proposals[i]
			break
		}
	}
	if proposal == nil {
		return nil, fmt.Errorf("proposal not found")
	}

	now := time.Now()
	invoice := models.Invoice{
		ID:         utils.NewInvoiceReference(now),
		ProposalID: proposal.ID,
		ClientName: proposal.ClientName,
		Type:       models.InvoiceUpfront,
		Status:     models.InvoiceDraft,
		DueDate:    now.AddDate(0, 0, 30).Format("2006-01-02"), // 默认 Net 30
		IssueDate:  now.Format("2006-01-02"),
		Terms:      "Net 30",
		Items:      []models.InvoiceLineItem{},
	}
	for _, item := range proposal.Content.Investment {
		if item.CostInitial > 0 {
			invoice.Amount += item.CostInitial
			invoice.Items = append(invoice.Items, models.InvoiceLineItem{
				Description: item.Item,
				Cost:        item.CostInitial,
			})
		}
	}

	s.invoices = append([]models.Invoice{invoice}, s.invoices...)
	return &invoice, nil
}

// ==== Invoices ====

// ListInvoices 列出全部发票
func (s *MemoryStore) ListInvoices() ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Invoice(nil), s.invoices...), nil
}

// GetInvoice 按编号获取发票
func (s *MemoryStore) GetInvoice(id string) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invoices {
		if inv.ID == id {
			invoice := inv
			return &invoice, nil
		}
	}
	return nil, fmt.Errorf("invoice not found")
}

// CreateInvoice 创建发票
func (s *MemoryStore) CreateInvoice(inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv.ID == "" {
		inv.ID = utils.NewInvoiceReference(time.Now())
	}
	if inv.Status == "" {
		inv.Status = models.InvoiceDraft
	}
	if inv.Items == nil {
		inv.Items = []models.InvoiceLineItem{}
	}
	s.invoices = append([]models.Invoice{*inv}, s.invoices...)
	return nil
}

// UpdateInvoiceStatus 更新发票状态；
// 草稿签发（Draft→Pending）时补记签发日期
func (s *MemoryStore) UpdateInvoiceStatus(id string, status models.InvoiceStatus) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, inv := range s.invoices {
		if inv.ID == id {
			if inv.Status == models.InvoiceDraft && status == models.InvoicePending {
				s.invoices[i].IssueDate = time.Now().Format("2006-01-02")
			}
			s.invoices[i].Status = status
			invoice := s.invoices[i]
			return &invoice, nil
		}
	}
	return nil, fmt.Errorf("invoice not found")
}

// ==== Support Tickets ====

// ListTickets 列出全部工单
func (s *MemoryStore) ListTickets() ([]models.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SupportTicket(nil), s.tickets...), nil
}

// GetTicket 按编号获取工单
func (s *MemoryStore) GetTicket(id string) (*models.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tickets {
		if t.ID == id {
			ticket := t
			return &ticket, nil
		}
	}
	return nil, fmt.Errorf("ticket not found")
}

// CreateTicket 创建工单
func (s *MemoryStore) CreateTicket(t *models.SupportTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = utils.NewTicketReference()
	}
	if t.Status == "" {
		t.Status = models.TicketOpen
	}
	if t.Messages == nil {
		t.Messages = []models.TicketMessage{}
	}
	t.CreatedAt = time.Now()
	t.LastUpdated = time.Now()
	s.tickets = append(s.tickets, *t)
	return nil
}

// AppendTicketMessage 追加工单消息
func (s *MemoryStore) AppendTicketMessage(ticketID string, msg models.TicketMessage) (*models.SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tickets {
		if t.ID == ticketID {
			if msg.ID == "" {
				msg.ID = uuid.New().String()
			}
			if msg.Timestamp.IsZero() {
				msg.Timestamp = time.Now()
			}
			s.tickets[i].Messages = append(s.tickets[i].Messages, msg)
			s.tickets[i].LastUpdated = time.Now()
			ticket := s.tickets[i]
			return &ticket, nil
		}
	}
	return nil, fmt.Errorf("ticket not found")
}

// SetTicketStatus 更新工单状态
func (s *MemoryStore) SetTicketStatus(id string, status models.TicketStatus) (*models.SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tickets {
		if t.ID == id {
			s.tickets[i].Status = status
			s.tickets[i].LastUpdated = time.Now()
			ticket := s.tickets[i]
			return &ticket, nil
		}
	}
	return nil, fmt.Errorf("ticket not found")
}

// ==== Drive ====

// ListDriveItems 列出全部云盘条目
func (s *MemoryStore) ListDriveItems() ([]models.DriveItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DriveItem(nil), s.driveItems...), nil
}

// ListDriveChildren 列出某文件夹的直接子项（parentID为nil表示根目录）
func (s *MemoryStore) ListDriveChildren(parentID *string) ([]models.DriveItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var children []models.DriveItem
	for _, item := range s.driveItems {
		if parentID == nil && item.ParentID == nil {
			children = append(children, item)
		} else if parentID != nil && item.ParentID != nil && *item.ParentID == *parentID {
			children = append(children, item)
		}
	}
	return children, nil
}

// CreateDriveItem 创建云盘条目
func (s *MemoryStore) CreateDriveItem(item *models.DriveItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.UpdatedAt == "" {
		item.UpdatedAt = time.Now().Format("2006-01-02")
	}
	s.driveItems = append(s.driveItems, *item)
	return nil
}

// DeleteDriveItem 删除云盘条目（不级联删除子项，树假定由调用方维护）
func (s *MemoryStore) DeleteDriveItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.driveItems {
		if item.ID == id {
			s.driveItems = append(s.driveItems[:i], s.driveItems[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("drive item not found")
}

// ==== Snapshot ====

// Snapshot 返回全部集合的拷贝
func (s *MemoryStore) Snapshot() Collections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Collections{
		Organizations: append([]models.Organization(nil), s.organizations...),
		TeamMembers:   append([]models.User(nil), s.teamMembers...),
		Projects:      append([]models.Project(nil), s.projects...),
		Tasks:         append([]models.Task(nil), s.tasks...),
		Proposals:     append([]models.Proposal(nil), s.proposals...),
		Invoices:      append([]models.Invoice(nil), s.invoices...),
		Tickets:       append([]models.SupportTicket(nil), s.tickets...),
		DriveItems:    append([]models.DriveItem(nil), s.driveItems...),
	}
}

// HealthCheck 健康检查
func (s *MemoryStore) HealthCheck() error {
	return nil
}

package store

import (
	"time"

	"refiniti-ops-backend/pkg/models"
)

// seed 装载演示数据集（会话的初始状态）。
// 业务日期相对当前时间生成，保证到期提醒等动态行为可见。
func seed(s *MemoryStore, now time.Time) {
	date := func(days int) string {
		return now.AddDate(0, 0, days).Format("2006-01-02")
	}
	strPtr := func(v string) *string { return &v }

	s.teamMembers = []models.User{
		{
			ID: "1", Name: "Varia Admin", Email: "admin@refiniti.ai", Phone: "555-0101",
			Role: models.RoleSuperAdmin, Status: models.UserActive,
			Permissions: []string{
				"view_dashboard", "view_proposals", "edit_proposals",
				"view_operations", "edit_operations", "view_finance", "edit_finance",
				"view_users", "edit_users", "view_marketing", "edit_marketing",
				"view_support", "edit_support",
			},
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "2", Name: "Sarah Designer", Email: "sarah@refiniti.ai", Phone: "555-0102",
			Role: models.RoleEmployee, Status: models.UserActive,
			Permissions: []string{"view_dashboard", "view_operations", "edit_operations", "view_proposals"},
			CreatedAt:   now, UpdatedAt: now,
		},
		{
			ID: "3", Name: "Mike Sales", Email: "mike@refiniti.ai", Phone: "555-0103",
			Role: models.RoleSales, Status: models.UserActive,
			Permissions: []string{"view_dashboard", "view_proposals", "edit_proposals", "view_finance", "view_users"},
			CreatedAt:   now, UpdatedAt: now,
		},
	}

	s.organizations = []models.Organization{
		{
			ID: "org1", Name: "Apex Innovations", Industry: "FinTech", Status: models.OrgActive,
			AssignedEmployees: []string{"2", "3"}, // Sarah & Mike
			Users: []models.User{
				{
					ID: "c1", Name: "John Apex", Email: "john@apex.com", Phone: "555-0201",
					Role: models.RoleClient, Status: models.UserActive,
					Permissions: []string{
						"view_dashboard", "view_proposals", "view_operations",
						"view_finance", "view_support", "view_users", "view_marketing",
					},
					CreatedAt: now, UpdatedAt: now,
				},
				{
					ID: "c3", Name: "Jane Finance", Email: "jane@apex.com", Phone: "555-0203",
					Role: models.RoleClient, Status: models.UserActive,
					Permissions: []string{"view_dashboard", "view_finance", "view_users"},
					CreatedAt:   now, UpdatedAt: now,
				},
			},
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "org2", Name: "Zenith Health", Industry: "Healthcare", Status: models.OrgOnboarding,
			AssignedEmployees: []string{"2"}, // Sarah only
			Users: []models.User{
				{
					ID: "c2", Name: "Dr. Smith", Email: "smith@zenith.com", Phone: "555-0202",
					Role: models.RoleClient, Status: models.UserActive,
					Permissions: []string{"view_dashboard", "view_proposals", "view_support", "view_marketing", "view_users"},
					CreatedAt:   now, UpdatedAt: now,
				},
			},
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "org3", Name: "Vortex Logistics", Industry: "Supply Chain", Status: models.OrgActive,
			AssignedEmployees: []string{}, Users: []models.User{},
			CreatedAt:         now, UpdatedAt: now,
		},
	}

	s.projects = []models.Project{
		{ID: "p1", ClientID: "org1", Title: "Website Redesign V2", Description: "Complete overhaul of landing pages.", Status: "Active", Progress: 65, DueDate: date(14), Members: []string{"Sarah Designer", "Mike Sales"}},
		{ID: "p2", ClientID: "org1", Title: "Q4 Marketing Push", Description: "Paid ad campaigns and asset gen.", Status: "Active", Progress: 30, DueDate: date(30), Members: []string{"Mike Sales", "Varia Admin"}},
		{ID: "p3", ClientID: "org2", Title: "Onboarding & Setup", Description: "Initial CRM and Drive setup.", Status: "Active", Progress: 90, DueDate: date(5), Members: []string{"Varia Admin"}},
	}

	s.tasks = []models.Task{
		{
			ID: "t1", ProjectID: "p1", ClientID: "org1", Title: "Homepage Hero Animation",
			Description: "Create Lottie animation for hero section.", Status: models.TaskInProgress,
			Assignee: "Sarah Designer", DueDate: date(1), Priority: "High",
			Checklist: []models.ChecklistItem{
				{ID: "c1", Text: "Draft storyboard", Completed: true},
				{ID: "c2", Text: "Vectorize assets", Completed: true},
				{ID: "c3", Text: "Final Animation", Completed: false},
			},
		},
		{
			ID: "t2", ProjectID: "p1", ClientID: "org1", Title: "Mobile Responsiveness",
			Description: "Fix padding issues on iOS Safari.", Status: models.TaskTodo,
			Assignee: "Mike Sales", DueDate: date(5), Priority: "Medium",
			Checklist: []models.ChecklistItem{
				{ID: "c4", Text: "Audit padding on iPhone 14", Completed: false},
				{ID: "c5", Text: "Fix navigation overlap", Completed: false},
			},
		},
		{
			ID: "t3", ProjectID: "p1", ClientID: "org1", Title: "SEO Audit",
			Description: "Review meta tags and sitemap.", Status: models.TaskDone,
			Assignee: "Varia Admin", DueDate: date(-2), Priority: "Low",
			Checklist: []models.ChecklistItem{},
		},
		{
			ID: "t4", ProjectID: "p2", ClientID: "org1", Title: "Ad Creative Set A",
			Description: "Static banners for LinkedIn @Sarah Designer", Status: models.TaskReview,
			Assignee: "Sarah Designer", DueDate: date(10), Priority: "High",
			Checklist: []models.ChecklistItem{
				{ID: "c6", Text: "Source imagery", Completed: true},
				{ID: "c7", Text: "Draft copy", Completed: false},
			},
		},
		{
			ID: "t5", ProjectID: "p1", ClientID: "org1", Title: "Backend API Integration",
			Description: "Connect form endpoints to CRM.", Status: models.TaskTodo,
			Assignee: "Varia Admin", DueDate: date(8), Priority: "High",
			Checklist: []models.ChecklistItem{
				{ID: "c8", Text: "Define schemas", Completed: false},
				{ID: "c9", Text: "Setup webhooks", Completed: false},
			},
		},
		{
			ID: "t6", ProjectID: "p1", ClientID: "org1", Title: "User Acceptance Testing",
			Description: "Coordinate with client for beta testing.", Status: models.TaskTodo,
			Assignee: "Mike Sales", DueDate: date(12), Priority: "Medium",
			Checklist: []models.ChecklistItem{
				{ID: "c10", Text: "Prepare UAT script", Completed: false},
				{ID: "c11", Text: "Schedule session", Completed: false},
			},
		},
		{
			ID: "t7", ProjectID: "p2", ClientID: "org1", Title: "Copywriting for Email Drip",
			Description: "Sequence of 5 emails.", Status: models.TaskInProgress,
			Assignee: "Mike Sales", DueDate: date(15), Priority: "Medium",
			Checklist: []models.ChecklistItem{
				{ID: "c12", Text: "Welcome email", Completed: true},
				{ID: "c13", Text: "Value prop email", Completed: false},
				{ID: "c14", Text: "Closing email", Completed: false},
			},
		},
		{
			ID: "t8", ProjectID: "p1", ClientID: "org1", Title: "Analytics Setup",
			Description: "Configure GA4 events.", Status: models.TaskDone,
			Assignee: "Varia Admin", DueDate: date(-1), Priority: "Low",
			Checklist: []models.ChecklistItem{},
		},
	}

	s.tickets = []models.SupportTicket{
		{
			ID: "TCK-1001", ClientID: "c1", ClientName: "John Apex", OrganizationName: "Apex Innovations",
			Subject: "Login Issue for New User", Status: models.TicketOpen, Priority: "High",
			CreatedAt: now.Add(-4 * time.Hour), LastUpdated: now.Add(-2 * time.Hour),
			Messages: []models.TicketMessage{
				{ID: "m1", SenderID: "c1", SenderName: "John Apex", Text: "We just added Jane to the team but she cannot access the portal.", Timestamp: now.Add(-4 * time.Hour), IsAdmin: false},
				{ID: "m2", SenderID: "1", SenderName: "Varia Admin", Text: "Checking her permissions now. Please hold.", Timestamp: now.Add(-3 * time.Hour), IsAdmin: true},
			},
		},
		{
			ID: "TCK-1002", ClientID: "c2", ClientName: "Dr. Smith", OrganizationName: "Zenith Health",
			Subject: "Invoice Discrepancy", Status: models.TicketResolved, Priority: "Medium",
			CreatedAt: now.AddDate(0, 0, -2), LastUpdated: now.AddDate(0, 0, -1),
			Messages: []models.TicketMessage{
				{ID: "m3", SenderID: "c2", SenderName: "Dr. Smith", Text: "The last invoice shows an extra charge.", Timestamp: now.AddDate(0, 0, -2), IsAdmin: false},
			},
		},
	}

	s.proposals = []models.Proposal{
		{
			ID: "pr1", ClientID: "org1", ClientName: "Apex Innovations", ClientEmail: "john@apex.com",
			Services:      []string{"Web Dev", "SEO"},
			CustomDetails: "Client wants a dark mode aesthetic with high contrast.",
			EstimatedUpfront: 5000, EstimatedRetainer: 2000,
			Content: models.ProposalContent{
				Hero:   models.ProposalHero{Title: "Proposal for Apex Innovations", Subtitle: "Draft V1"},
				Engine: models.ProposalEngine{GeneratedValue: 15000, Description: "Optimization engine active."},
				Phases: []models.ProposalPhase{
					{Title: "Phase 1: Foundation", Description: "Initial setup", Items: []string{"Setup server", "Install CMS"}},
				},
				Investment: []models.InvestmentItem{
					{Item: "Foundation Setup", CostInitial: 5000, CostMonthly: 0},
					{Item: "SEO Retainer", CostInitial: 0, CostMonthly: 2000},
				},
				Strategy: []models.StrategyNote{{Title: "SEO Strategy", Content: "Focus on long-tail keywords."}},
				AdSpend:  []models.AdSpendRow{},
			},
			Status:    models.ProposalSentToClient,
			CreatedAt: now.AddDate(0, 0, -1),
		},
		{
			ID: "pr2", ClientID: "org2", ClientName: "Zenith Health",
			Services:         []string{"Social Media"},
			EstimatedUpfront: 3000, EstimatedRetainer: 1500,
			Content: models.ProposalContent{
				Hero:       models.ProposalHero{Title: "Proposal for Zenith Health", Subtitle: "Draft V1"},
				Engine:     models.ProposalEngine{GeneratedValue: 12000, Description: "Optimization engine active."},
				Phases:     []models.ProposalPhase{},
				Investment: []models.InvestmentItem{},
				Strategy:   []models.StrategyNote{},
				AdSpend:    []models.AdSpendRow{},
			},
			Status:    models.ProposalDraft,
			CreatedAt: now,
		},
	}

	s.invoices = []models.Invoice{
		{
			ID: "INV-0024-A", ProposalID: "pr1", ClientName: "Apex Innovations",
			Amount: 5000, Type: models.InvoiceUpfront, Status: models.InvoicePaid,
			DueDate: date(-5), IssueDate: date(-40), Terms: "Net 14",
			Items: []models.InvoiceLineItem{
				{Description: "Digital Infrastructure Setup", Cost: 2000},
				{Description: "Brand Identity Vectorization", Cost: 1500},
				{Description: "Initial Strategy Development", Cost: 1500},
			},
		},
		{
			ID: "INV-0024-B", ProposalID: "pr1", ClientName: "Apex Innovations",
			Amount: 2500, Type: models.InvoiceRetainer, Status: models.InvoicePending,
			DueDate: date(15), IssueDate: date(-1), Terms: "Net 30",
			Items: []models.InvoiceLineItem{
				{Description: "Monthly Performance Marketing Suite", Cost: 2500},
			},
		},
		{
			ID: "INV-0025-A", ProposalID: "pr2", ClientName: "Zenith Health",
			Amount: 12500, Type: models.InvoiceUpfront, Status: models.InvoiceDraft,
			DueDate: date(30), IssueDate: "", Terms: "Net 30",
			Items: []models.InvoiceLineItem{
				{Description: "Enterprise Web Development", Cost: 8000},
				{Description: "Video Production (3D Animation)", Cost: 4500},
			},
		},
	}

	s.driveItems = []models.DriveItem{
		// 根目录
		{ID: "1", ParentID: nil, Name: "Brand Assets", Type: models.DriveFolder, UpdatedAt: date(-4)},
		{ID: "2", ParentID: nil, Name: "Legal Documents", Type: models.DriveFolder, UpdatedAt: date(-7)},
		{ID: "3", ParentID: nil, Name: "Project Intake Forms", Type: models.DriveFolder, UpdatedAt: date(-5)},
		{
			ID: "4", ParentID: nil, Name: "Client_Logins_Master.xlsx", Type: models.DriveSpreadsheet,
			Size: "15 KB", UpdatedAt: date(-9), Tags: []string{"sensitive"},
			Content: []models.CredentialRow{
				{Platform: "Wordpress Admin", URL: "https://site.com/wp-admin", Username: "admin_refiniti", Password: "secure_password_123", Notes: "Main CMS access"},
				{Platform: "Google Analytics", URL: "https://analytics.google.com", Username: "marketing@client.com", Password: "shared_access_2024", Notes: "View only"},
				{Platform: "Meta Business Suite", URL: "https://business.facebook.com", Username: "social@client.com", Password: "fb_ads_manager_key", Notes: "Ad account ID: 123456789"},
				{Platform: "Mailchimp", URL: "https://mailchimp.com", Username: "newsletter@client.com", Password: "email_blast_key_99", Notes: "2FA enabled"},
				{Platform: "Stripe Dashboard", URL: "https://dashboard.stripe.com", Username: "billing@client.com", Password: "finance_key_secure", Notes: "Finance team only"},
			},
		},
		// Brand Assets
		{ID: "11", ParentID: strPtr("1"), Name: "Logo_Pack_Vector.zip", Type: models.DriveFile, Size: "24 MB", UpdatedAt: date(-4)},
		{ID: "12", ParentID: strPtr("1"), Name: "Brand_Guidelines_V2.pdf", Type: models.DriveFile, Size: "4.2 MB", UpdatedAt: date(-4)},
		{ID: "13", ParentID: strPtr("1"), Name: "Social_Media_Kit", Type: models.DriveFolder, UpdatedAt: date(-3)},
		// Social Media Kit
		{ID: "131", ParentID: strPtr("13"), Name: "Instagram_Templates.psd", Type: models.DriveFile, Size: "120 MB", UpdatedAt: date(-3)},
		{ID: "132", ParentID: strPtr("13"), Name: "LinkedIn_Banners.ai", Type: models.DriveFile, Size: "45 MB", UpdatedAt: date(-3)},
		// Legal
		{ID: "21", ParentID: strPtr("2"), Name: "MSA_Signed.pdf", Type: models.DriveFile, Size: "1.2 MB", UpdatedAt: date(-44)},
		{ID: "22", ParentID: strPtr("2"), Name: "NDA_Executed.pdf", Type: models.DriveFile, Size: "850 KB", UpdatedAt: date(-49)},
		// Intake
		{ID: "31", ParentID: strPtr("3"), Name: "Q4_Marketing_Brief.docx", Type: models.DriveFile, Size: "24 KB", UpdatedAt: date(-5)},
		{ID: "32", ParentID: strPtr("3"), Name: "Website_Requirements.pdf", Type: models.DriveFile, Size: "1.5 MB", UpdatedAt: date(-5)},
		{ID: "33", ParentID: strPtr("3"), Name: "User_Personas.pdf", Type: models.DriveFile, Size: "2.1 MB", UpdatedAt: date(-6)},
	}
}

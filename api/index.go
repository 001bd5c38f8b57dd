package handler

import (
	"fmt"
	"net/http"
	"time"

	"refiniti-ops-backend/pkg/ai"
	"refiniti-ops-backend/pkg/config"
	"refiniti-ops-backend/pkg/handlers"
	customMiddleware "refiniti-ops-backend/pkg/middleware"
	"refiniti-ops-backend/pkg/store"
	"refiniti-ops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler 是Vercel函数的入口点
// 这个函数实现了"单体路由模式"，将所有API端点集中在一个Chi路由器中管理
func Handler(w http.ResponseWriter, r *http.Request) {
	// 加载配置
	cfg := config.GetCached()

	// 验证配置
	if err := cfg.Validate(); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Configuration error: "+err.Error())
		return
	}

	// 进程级会话存储（冷启动时播种示例数据，热调用间复用）
	st := store.GetShared()

	// 创建Chi路由器
	router := chi.NewRouter()

	// 设置全局中间件
	setupMiddleware(router, cfg)

	// 设置路由
	setupRoutes(router, cfg, st)

	// 将请求传递给Chi路由器处理
	router.ServeHTTP(w, r)
}

// setupMiddleware 设置全局中间件
func setupMiddleware(router *chi.Mux, cfg *config.Config) {
	// 基础中间件
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	// Normalize path and restore scheme/host before logging and routing
	router.Use(customMiddleware.Normalize())
	router.Use(customMiddleware.Logger(cfg))
	router.Use(customMiddleware.Recovery(cfg))

	// CORS中间件
	router.Use(customMiddleware.CORS(cfg))

	// 超时中间件（Vercel函数有时间限制）
	router.Use(middleware.Timeout(25 * time.Second)) // 留5秒缓冲

	// 压缩中间件
	router.Use(middleware.Compress(5))

	// 请求体约束
	router.Use(customMiddleware.MaxBodySize(1 << 20)) // 1MB
	router.Use(customMiddleware.ContentTypeJSON)

	// 开发环境额外中间件
	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}
}

// setupRoutes 设置所有API路由
func setupRoutes(router *chi.Mux, cfg *config.Config, st store.StoreInterface) {
	// AI网关（所有生成端点共用）
	gateway := ai.NewGateway(cfg)

	// 创建处理器
	authHandler := handlers.NewAuthHandler(cfg, st)
	orgHandler := handlers.NewOrgHandler(cfg, st)
	proposalHandler := handlers.NewProposalHandler(cfg, st, gateway)
	invoiceHandler := handlers.NewInvoiceHandler(cfg, st, gateway)
	projectHandler := handlers.NewProjectHandler(cfg, st, gateway)
	ticketHandler := handlers.NewTicketHandler(cfg, st, gateway)
	driveHandler := handlers.NewDriveHandler(cfg, st)
	feedHandler := handlers.NewFeedHandler(cfg, st)
	aiHandler := handlers.NewAIHandler(cfg, st, gateway)

	// 健康检查端点
	router.Get("/", authHandler.HealthCheck)

	// 环境变量检查端点（调试用）
	if cfg.IsDevelopment() {
		router.Get("/debug/env-check", func(w http.ResponseWriter, r *http.Request) {
			envStatus := map[string]interface{}{
				"jwt_secret":     cfg.JWTSecret != "",
				"gemini_api_key": cfg.GeminiAPIKey != "",
				"gemini_model":   cfg.GeminiModel,
				"environment":    cfg.Environment,
			}
			utils.WriteSuccessResponse(w, envStatus)
		})
	}

	// API路由组
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", authHandler.HealthCheck)

		// 公开路由（不需要认证）
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
		})

		// 需要认证的路由
		r.Group(func(r chi.Router) {
			// 应用认证中间件
			r.Use(customMiddleware.AuthMiddleware(cfg, st))

			// 代管会话（员工以客户身份登录）
			r.Post("/auth/login-as", authHandler.LoginAs)
			r.Post("/auth/revert", authHandler.Revert)

			// 客户组织与用户管理
			r.Route("/orgs", func(r chi.Router) {
				r.Get("/", orgHandler.ListOrganizations)
				r.Post("/", orgHandler.CreateOrganization)
				r.Get("/{orgId}", orgHandler.GetOrganization)
				r.Put("/{orgId}", orgHandler.UpdateOrganization)
				r.Post("/{orgId}/users", orgHandler.AddOrganizationUser)
			})
			r.Route("/team", func(r chi.Router) {
				r.Get("/", orgHandler.ListTeamMembers)
				r.Post("/", orgHandler.CreateTeamMember)
			})
			r.Route("/users", func(r chi.Router) {
				r.Put("/{userId}", orgHandler.UpdateUser)
				r.Put("/{userId}/status", orgHandler.SetUserStatus)
			})

			// 提案
			r.Route("/proposals", func(r chi.Router) {
				r.Get("/", proposalHandler.ListProposals)
				r.Post("/", proposalHandler.CreateProposal)
				r.Get("/{proposalId}", proposalHandler.GetProposal)
				r.Post("/{proposalId}/send", proposalHandler.SendProposal)
				r.Post("/{proposalId}/accept", proposalHandler.AcceptProposal)
			})

			// 发票
			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", invoiceHandler.ListInvoices)
				r.Post("/", invoiceHandler.CreateInvoice)
				r.Get("/{invoiceId}", invoiceHandler.GetInvoice)
				r.Put("/{invoiceId}/status", invoiceHandler.UpdateInvoiceStatus)
				r.Post("/{invoiceId}/email", invoiceHandler.GenerateInvoiceEmail)
			})

			// 项目与任务
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.ListProjects)
				r.Post("/", projectHandler.CreateProject)
				r.Put("/{projectId}", projectHandler.UpdateProject)
				r.Post("/{projectId}/generate-tasks", projectHandler.GenerateTasks)
			})
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", projectHandler.ListTasks)
				r.Post("/", projectHandler.CreateTask)
				r.Put("/{taskId}", projectHandler.UpdateTask)
				r.Delete("/{taskId}", projectHandler.DeleteTask)
			})

			// 支持工单
			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", ticketHandler.ListTickets)
				r.Post("/", ticketHandler.CreateTicket)
				r.Get("/{ticketId}", ticketHandler.GetTicket)
				r.Post("/{ticketId}/messages", ticketHandler.AppendMessage)
				r.Put("/{ticketId}/status", ticketHandler.SetTicketStatus)
			})
			r.Post("/support/chat", ticketHandler.Chat)

			// 内部云盘（员工专用）
			r.Route("/drive", func(r chi.Router) {
				r.Get("/", driveHandler.ListItems)
				r.Post("/", driveHandler.CreateItem)
				r.Delete("/{itemId}", driveHandler.DeleteItem)
			})

			// 动态Feed
			r.Get("/feed", feedHandler.GetFeed)

			// AI生成
			r.Post("/ai/strategy", aiHandler.GenerateStrategy)
		})
	})

	// 404处理
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path))
	})

	// 405处理
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponseWithCode(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path), "")
	})
}

package handlers

import (
	"fmt"
	"net/http"

	"refiniti-ops-backend/pkg/access"
	"refiniti-ops-backend/pkg/ai"
	"refiniti-ops-backend/pkg/config"
	"refiniti-ops-backend/pkg/middleware"
	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/store"
	"refiniti-ops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// ProjectHandler 项目与任务处理器
type ProjectHandler struct {
	config  *config.Config
	store   store.StoreInterface
	gateway *ai.Gateway
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(cfg *config.Config, st store.StoreInterface, gw *ai.Gateway) *ProjectHandler {
	return &ProjectHandler{config: cfg, store: st, gateway: gw}
}

// ListProjects 列出当前用户可见的项目
// GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	cols := h.store.Snapshot()
	utils.WriteSuccessResponse(w, access.FilterProjects(user, cols.Organizations, cols.Projects))
}

// CreateProject 创建项目
// POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditOperations) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	var req struct {
		ClientID    string   `json:"client_id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		DueDate     string   `json:"due_date"`
		Members     []string `json:"members"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Title == "" || req.ClientID == "" {
		utils.WriteBadRequestResponse(w, "title and client_id are required")
		return
	}
	if _, err := h.store.GetOrganization(req.ClientID); err != nil {
		utils.WriteNotFoundResponse(w, "Organization not found")
		return
	}

	project := &models.Project{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Members:     req.Members,
	}
	if err := h.store.CreateProject(project); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create project")
		return
	}

	utils.WriteCreatedResponse(w, project)
}

// UpdateProject 更新项目（进度、成员、状态）
// PUT /api/projects/{projectId}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditOperations) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	project, err := h.store.GetProject(chi.URLParam(r, "projectId"))
	if err != nil {
		utils.WriteNotFoundResponse(w, "Project not found")
		return
	}

	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Status      *string  `json:"status"`
		Progress    *int     `json:"progress"`
		DueDate     *string  `json:"due_date"`
		Members     []string `json:"members"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			utils.WriteBadRequestResponse(w, "progress must be between 0 and 100")
			return
		}
		project.Progress = *req.Progress
	}
	if req.DueDate != nil {
		project.DueDate = *req.DueDate
	}
	if req.Members != nil {
		project.Members = req.Members
	}

	if err := h.store.UpdateProject(project); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to update project")
		return
	}

	utils.WriteSuccessResponse(w, project)
}

// ListTasks 列出当前用户可见的任务
// GET /api/tasks
func (h *ProjectHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	cols := h.store.Snapshot()
	tasks := access.FilterTasks(user, cols.Organizations, cols.Tasks)

	// 可选按项目过滤
	if projectID := utils.GetQueryParam(r, "project_id", ""); projectID != "" {
		filtered := []models.Task{}
		for _, t := range tasks {
			if t.ProjectID == projectID {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	utils.WriteSuccessResponse(w, tasks)
}

// CreateTask 创建任务
// POST /api/tasks
func (h *ProjectHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditOperations) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	var req struct {
		ProjectID   string                 `json:"project_id"`
		Title       string                 `json:"title"`
		Description string                 `json:"description"`
		Assignee    string                 `json:"assignee"`
		DueDate     string                 `json:"due_date"`
		Priority    string                 `json:"priority"`
		Checklist   []models.ChecklistItem `json:"checklist"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Title == "" || req.ProjectID == "" {
		utils.WriteBadRequestResponse(w, "title and project_id are required")
		return
	}

	project, err := h.store.GetProject(req.ProjectID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Project not found")
		return
	}

	task := &models.Task{
		ProjectID:   project.ID,
		ClientID:    project.ClientID, // 冗余组织ID，供客户侧过滤
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Checklist:   req.Checklist,
	}
	if task.Priority == "" {
		task.Priority = "Medium"
	}
	if err := h.store.CreateTask(task); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create task")
		return
	}

	utils.WriteCreatedResponse(w, task)
}

// UpdateTask 更新任务（看板拖拽、指派、勾选清单）
// PUT /api/tasks/{taskId}
func (h *ProjectHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditOperations) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	taskID := chi.URLParam(r, "taskId")
	tasks, err := h.store.ListTasks()
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to load tasks")
		return
	}
	var task *models.Task
	for i := range tasks {
		if tasks[i].ID == taskID {
			task = &tasks[i]
			break
		}
	}
	if task == nil {
		utils.WriteNotFoundResponse(w, "Task not found")
		return
	}

	var req struct {
		Title       *string                `json:"title"`
		Description *string                `json:"description"`
		Status      *models.TaskStatus     `json:"status"`
		Assignee    *string                `json:"assignee"`
		DueDate     *string                `json:"due_date"`
		Priority    *string                `json:"priority"`
		Checklist   []models.ChecklistItem `json:"checklist"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		switch *req.Status {
		case models.TaskTodo, models.TaskInProgress, models.TaskReview, models.TaskDone:
			task.Status = *req.Status
		default:
			utils.WriteBadRequestResponse(w, "Invalid task status")
			return
		}
	}
	if req.Assignee != nil {
		task.Assignee = *req.Assignee
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Checklist != nil {
		task.Checklist = req.Checklist
	}

	if err := h.store.UpdateTask(task); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to update task")
		return
	}

	utils.WriteSuccessResponse(w, task)
}

// DeleteTask 删除任务
// DELETE /api/tasks/{taskId}
func (h *ProjectHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditOperations) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	if err := h.store.DeleteTask(chi.URLParam(r, "taskId")); err != nil {
		utils.WriteNotFoundResponse(w, "Task not found")
		return
	}

	utils.WriteSuccessResponse(w, map[string]string{"status": "deleted"})
}

// GenerateTasks 基于策略文本为项目批量生成任务并落库
// POST /api/projects/{projectId}/generate-tasks
func (h *ProjectHandler) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if !user.IsStaff() || !access.Can(user, access.EditOperations) {
		utils.WriteForbiddenResponse(w, "Insufficient permissions")
		return
	}

	project, err := h.store.GetProject(chi.URLParam(r, "projectId"))
	if err != nil {
		utils.WriteNotFoundResponse(w, "Project not found")
		return
	}

	var req struct {
		Strategy string `json:"strategy"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Strategy == "" {
		utils.WriteBadRequestResponse(w, "strategy text is required")
		return
	}

	generated := h.gateway.GenerateProjectTasks(req.Strategy, project.Title)

	created := []models.Task{}
	for _, g := range generated {
		task := models.Task{
			ProjectID:   project.ID,
			ClientID:    project.ClientID,
			Title:       g.Title,
			Description: g.Description,
			Status:      models.TaskTodo,
			Priority:    g.Priority,
			Checklist:   g.Checklist,
		}
		if err := h.store.CreateTask(&task); err != nil {
			utils.WriteInternalServerErrorResponse(w, "Failed to persist generated tasks")
			return
		}
		created = append(created, task)
	}

	fmt.Printf("✅ Generated %d tasks for project %s\n", len(created), project.ID)
	utils.WriteCreatedResponse(w, created)
}

package handlers

import (
	"net/http"

	"refiniti-ops-backend/pkg/config"
	"refiniti-ops-backend/pkg/middleware"
	"refiniti-ops-backend/pkg/models"
	"refiniti-ops-backend/pkg/store"
	"refiniti-ops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// DriveHandler 内部云盘处理器（员工专用）
type DriveHandler struct {
	config *config.Config
	store  store.StoreInterface
}

// NewDriveHandler 创建云盘处理器
func NewDriveHandler(cfg *config.Config, st store.StoreInterface) *DriveHandler {
	return &DriveHandler{config: cfg, store: st}
}

// requireStaff 云盘整棵树只对员工开放（含凭证表格）
func (h *DriveHandler) requireStaff(w http.ResponseWriter, r *http.Request) *models.User {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return nil
	}
	if !user.IsStaff() {
		utils.WriteForbiddenResponse(w, "Access denied")
		return nil
	}
	return user
}

// ListItems 列出全部云盘条目，或按parent_id列出某文件夹的直接子项
// GET /api/drive?parent_id=...
func (h *DriveHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	if h.requireStaff(w, r) == nil {
		return
	}

	// parent_id=root 表示根目录；缺省返回整棵树
	if r.URL.Query().Has("parent_id") {
		parentParam := r.URL.Query().Get("parent_id")
		var parentID *string
		if parentParam != "" && parentParam != "root" {
			parentID = &parentParam
		}
		children, err := h.store.ListDriveChildren(parentID)
		if err != nil {
			utils.WriteInternalServerErrorResponse(w, "Failed to list drive items")
			return
		}
		if children == nil {
			children = []models.DriveItem{}
		}
		utils.WriteSuccessResponse(w, children)
		return
	}

	items, err := h.store.ListDriveItems()
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list drive items")
		return
	}
	utils.WriteSuccessResponse(w, items)
}

// CreateItem 创建文件夹/文件/凭证表格
// POST /api/drive
func (h *DriveHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if h.requireStaff(w, r) == nil {
		return
	}

	var req struct {
		ParentID *string                `json:"parent_id"`
		Name     string                 `json:"name"`
		Type     models.DriveItemType   `json:"type"`
		Size     string                 `json:"size"`
		Tags     []string               `json:"tags"`
		Content  []models.CredentialRow `json:"content"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.WriteBadRequestResponse(w, "name is required")
		return
	}
	switch req.Type {
	case models.DriveFolder, models.DriveFile, models.DriveSpreadsheet:
	default:
		utils.WriteBadRequestResponse(w, "Invalid item type")
		return
	}

	item := &models.DriveItem{
		ParentID: req.ParentID,
		Name:     req.Name,
		Type:     req.Type,
		Size:     req.Size,
		Tags:     req.Tags,
		Content:  req.Content,
	}
	if err := h.store.CreateDriveItem(item); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create drive item")
		return
	}

	utils.WriteCreatedResponse(w, item)
}

// DeleteItem 删除条目
// DELETE /api/drive/{itemId}
func (h *DriveHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if h.requireStaff(w, r) == nil {
		return
	}

	if err := h.store.DeleteDriveItem(chi.URLParam(r, "itemId")); err != nil {
		utils.WriteNotFoundResponse(w, "Drive item not found")
		return
	}

	utils.WriteSuccessResponse(w, map[string]string{"status": "deleted"})
}

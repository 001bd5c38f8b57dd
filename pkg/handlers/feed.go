package handlers

import (
	"net/http"
	"time"

	"refiniti-ops-backend/pkg/config"
	"refiniti-ops-backend/pkg/feed"
	"refiniti-ops-backend/pkg/middleware"
	"refiniti-ops-backend/pkg/store"
	"refiniti-ops-backend/pkg/utils"
)

// FeedHandler 动态Feed处理器
type FeedHandler struct {
	config *config.Config
	store  store.StoreInterface
}

// NewFeedHandler 创建Feed处理器
func NewFeedHandler(cfg *config.Config, st store.StoreInterface) *FeedHandler {
	return &FeedHandler{config: cfg, store: st}
}

// GetFeed 重算并返回当前用户的通知Feed。
// 偏好通过查询参数关闭对应来源：?proposals=false&invoices=false&tasks=false&tickets=false
// GET /api/feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	prefs := feed.DefaultPreferences()
	prefs.Proposals = utils.GetQueryBool(r, "proposals", true)
	prefs.Invoices = utils.GetQueryBool(r, "invoices", true)
	prefs.Tasks = utils.GetQueryBool(r, "tasks", true)
	prefs.Tickets = utils.GetQueryBool(r, "tickets", true)

	entries := feed.Build(time.Now(), user, h.store.Snapshot(), prefs)
	utils.WriteSuccessResponse(w, entries)
}

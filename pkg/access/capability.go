package access

import "refiniti-ops-backend/pkg/models"

// Capability 视图能力（闭合枚举，取代散落的权限字符串比较）
type Capability string

const (
	ViewDashboard  Capability = "view_dashboard"
	ViewProposals  Capability = "view_proposals"
	EditProposals  Capability = "edit_proposals"
	ViewOperations Capability = "view_operations"
	EditOperations Capability = "edit_operations"
	ViewFinance    Capability = "view_finance"
	EditFinance    Capability = "edit_finance"
	ViewUsers      Capability = "view_users"
	EditUsers      Capability = "edit_users"
	ViewMarketing  Capability = "view_marketing"
	EditMarketing  Capability = "edit_marketing"
	ViewSupport    Capability = "view_support"
	EditSupport    Capability = "edit_support"
)

// Can 检查用户是否拥有指定能力
func Can(user *models.User, cap Capability) bool {
	if user == nil {
		return false
	}
	for _, p := range user.Permissions {
		if p == string(cap) {
			return true
		}
	}
	return false
}

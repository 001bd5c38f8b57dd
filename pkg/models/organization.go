package models

import "time"

// OrgStatus 客户组织生命周期状态
type OrgStatus string

const (
	OrgActive     OrgStatus = "Active"
	OrgOnboarding OrgStatus = "Onboarding"
	OrgChurned    OrgStatus = "Churned"
)

// Organization represents a client account (company) served by the agency.
// Client users are embedded; AssignedEmployees lists staff ids responsible
// for the account.
type Organization struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Industry          string    `json:"industry,omitempty"`
	Status            OrgStatus `json:"status"`
	Logo              string    `json:"logo,omitempty"`
	AssignedEmployees []string  `json:"assigned_employees"`
	Users             []User    `json:"users"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HasMember reports whether the given user id is one of the organization's
// client users.
func (o *Organization) HasMember(userID string) bool {
	for _, u := range o.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

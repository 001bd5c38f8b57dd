package models

import "time"

// TicketStatus 工单状态
type TicketStatus string

const (
	TicketOpen     TicketStatus = "Open"
	TicketResolved TicketStatus = "Resolved"
)

// TicketMessage is one message in a ticket thread
type TicketMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	IsAdmin    bool      `json:"is_admin"`
}

// SupportTicket belongs to an organization via the client user who opened it.
// OrganizationName is denormalized for filtering and display.
type SupportTicket struct {
	ID               string          `json:"id"` // reference, e.g. TCK-1001
	ClientID         string          `json:"client_id"` // client user id
	ClientName       string          `json:"client_name"`
	OrganizationName string          `json:"organization_name"`
	Subject          string          `json:"subject"`
	Status           TicketStatus    `json:"status"`
	Priority         string          `json:"priority"` // High / Medium / Low
	CreatedAt        time.Time       `json:"created_at"`
	LastUpdated      time.Time       `json:"last_updated"`
	Messages         []TicketMessage `json:"messages"`
}

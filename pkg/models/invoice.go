package models

// InvoiceStatus 发票状态
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "Draft"
	InvoicePending InvoiceStatus = "Pending"
	InvoicePaid    InvoiceStatus = "Paid"
)

// InvoiceType 发票类型
type InvoiceType string

const (
	InvoiceUpfront  InvoiceType = "Upfront"
	InvoiceRetainer InvoiceType = "Retainer"
)

// InvoiceLineItem is one billed line
type InvoiceLineItem struct {
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// Invoice is optionally derived from an accepted proposal. Amount equals the
// sum of line items by convention; the store does not enforce it.
// IssueDate is empty while the invoice is an unissued draft.
type Invoice struct {
	ID         string            `json:"id"` // reference, e.g. INV-2026-1042
	ProposalID string            `json:"proposal_id,omitempty"`
	ClientName string            `json:"client_name"`
	Amount     float64           `json:"amount"`
	Type       InvoiceType       `json:"type"`
	Status     InvoiceStatus     `json:"status"`
	DueDate    string            `json:"due_date"`   // YYYY-MM-DD
	IssueDate  string            `json:"issue_date"` // YYYY-MM-DD, "" for drafts
	Terms      string            `json:"terms,omitempty"`
	Items      []InvoiceLineItem `json:"items"`
}

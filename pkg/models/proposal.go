package models

import "time"

// ProposalStatus 提案状态
type ProposalStatus string

const (
	ProposalDraft        ProposalStatus = "Draft"
	ProposalSentToClient ProposalStatus = "Sent to Client"
	ProposalAccepted     ProposalStatus = "Accepted"
)

// ProposalHero is the headline block of a generated proposal
type ProposalHero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// ProposalEngine carries the model-estimated value of the strategy.
// GeneratedValue is an estimate from the generation model, not a computed
// figure; no arithmetic consistency with Investment is guaranteed.
type ProposalEngine struct {
	GeneratedValue float64 `json:"generatedValue"`
	Description    string  `json:"description"`
}

// ProposalPhase is one phased-deliverables block
type ProposalPhase struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Items       []string `json:"items"`
}

// InvestmentItem is one row of the investment table
type InvestmentItem struct {
	Item        string  `json:"item"`
	CostInitial float64 `json:"costInitial"`
	CostMonthly float64 `json:"costMonthly"`
}

// StrategyNote is a titled strategy paragraph
type StrategyNote struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AdSpendRow is one row of the ad-spend projection table. Values are
// free-text ranges as produced by the generation model.
type AdSpendRow struct {
	Phase         string `json:"phase"`
	MonthlySpend  string `json:"monthlySpend"`
	TargetCPL     string `json:"targetCPL"`
	ExpectedLeads string `json:"expectedLeads"`
}

// ProposalContent is the structured generated body of a proposal
type ProposalContent struct {
	Hero       ProposalHero     `json:"hero"`
	Engine     ProposalEngine   `json:"engine"`
	Phases     []ProposalPhase  `json:"phases"`
	Investment []InvestmentItem `json:"investment"`
	Strategy   []StrategyNote   `json:"strategy"`
	AdSpend    []AdSpendRow     `json:"adSpend"`
}

// Proposal belongs to one client organization
type Proposal struct {
	ID                string          `json:"id"`
	ClientID          string          `json:"client_id"` // organization id
	ClientName        string          `json:"client_name"`
	ClientEmail       string          `json:"client_email,omitempty"`
	Services          []string        `json:"services"`
	CustomDetails     string          `json:"custom_details,omitempty"`
	EstimatedUpfront  float64         `json:"estimated_upfront"`
	EstimatedRetainer float64         `json:"estimated_retainer"`
	Content           ProposalContent `json:"content"`
	Status            ProposalStatus  `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

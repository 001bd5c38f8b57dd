package models

// RoadmapPhase is one phase of a marketing strategy roadmap
type RoadmapPhase struct {
	Phase      string   `json:"phase"`
	Timeline   string   `json:"timeline"`
	Objectives []string `json:"objectives"`
}

// MarketingStrategy is the structured output of the strategy generator
type MarketingStrategy struct {
	ExecutiveSummary string         `json:"executiveSummary"`
	TargetAudience   string         `json:"targetAudience"`
	BrandVoice       string         `json:"brandVoice"`
	Roadmap          []RoadmapPhase `json:"roadmap"`
	Channels         []string       `json:"channels"`
	KPIs             []string       `json:"kpis"`
}

// GeneratedTask is a partial task record produced by the task generator;
// it becomes a full Task once attached to a project.
type GeneratedTask struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    string          `json:"priority"`
	Checklist   []ChecklistItem `json:"checklist"`
}

// EmailDraft is a small subject/body pair
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

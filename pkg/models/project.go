package models

// TaskStatus 任务状态（看板列）
type TaskStatus string

const (
	TaskTodo       TaskStatus = "Todo"
	TaskInProgress TaskStatus = "In Progress"
	TaskReview     TaskStatus = "Review"
	TaskDone       TaskStatus = "Done"
)

// Project is a unit of delivery work for one client organization.
// Members holds staff display names; Progress is a manual 0-100 percentage.
type Project struct {
	ID          string   `json:"id"`
	ClientID    string   `json:"client_id"` // organization id
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	Progress    int      `json:"progress"`
	DueDate     string   `json:"due_date"` // YYYY-MM-DD
	Members     []string `json:"members"`
}

// ChecklistItem is a sub-item inside a task
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task belongs to a project; Assignee is a staff display name
type Task struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	ClientID    string          `json:"client_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      TaskStatus      `json:"status"`
	Assignee    string          `json:"assignee,omitempty"`
	DueDate     string          `json:"due_date"` // YYYY-MM-DD
	Priority    string          `json:"priority"` // High / Medium / Low
	Checklist   []ChecklistItem `json:"checklist"`
}

package models

// DriveItemType 云盘条目类型
type DriveItemType string

const (
	DriveFolder      DriveItemType = "folder"
	DriveFile        DriveItemType = "file"
	DriveSpreadsheet DriveItemType = "spreadsheet"
)

// CredentialRow is one row of a credentials spreadsheet stored in the drive
type CredentialRow struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Notes    string `json:"notes,omitempty"`
}

// DriveItem forms a folder tree via ParentID (nil for root entries).
// The tree is assumed well-formed; no cycle detection is performed.
type DriveItem struct {
	ID        string          `json:"id"`
	ParentID  *string         `json:"parent_id"`
	Name      string          `json:"name"`
	Type      DriveItemType   `json:"type"`
	Size      string          `json:"size,omitempty"`
	UpdatedAt string          `json:"updated_at"` // YYYY-MM-DD
	Tags      []string        `json:"tags,omitempty"`
	Content   []CredentialRow `json:"content,omitempty"`
}

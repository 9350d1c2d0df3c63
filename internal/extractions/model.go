package extractions

import "time"

// Extraction is one analyzed policy document: the text that went in and the
// structured summary that came out.
type Extraction struct {
	ID        string
	UserID    string
	PolicyID  *string
	FileName  string
	RawText   string
	Summary   map[string]any
	Provider  string
	Model     string
	CreatedAt time.Time
}

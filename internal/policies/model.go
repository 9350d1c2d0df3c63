package policies

import "time"

// Policy is a tracked insurance policy. Rows created ahead of an upload carry
// placeholder values until the extraction fills in the real details.
type Policy struct {
	ID            string
	UserID        string
	ClientID      *string
	PolicyNumber  string
	Carrier       string
	PolicyType    *string
	EffectiveDate *string
	ExpiryDate    *string
	PremiumAmount *string
	PDFURL        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Placeholder values used when a policy row is created before analysis.
const (
	PlaceholderCarrier = "Pending Analysis"
	PlaceholderPDFURL  = "pending_upload"
)

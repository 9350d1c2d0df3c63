package settings

import "time"

// CompanySettings holds the agency branding shown on client-facing reports.
type CompanySettings struct {
	UserID      string
	CompanyName *string
	LogoURL     *string
	BrandColor  *string
	UpdatedAt   time.Time
}

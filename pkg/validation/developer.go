package validation

// Step schemas for the developer onboarding flow.

// DeveloperProfile covers the opening step. The tax id is only required for
// registered companies, not individual developers.
type DeveloperProfile struct {
	DeveloperName string `json:"developer_name" validate:"required,min=3,max=120"`
	DeveloperType string `json:"developer_type" validate:"required,oneof=individual company"`
	PAN           string `json:"pan"            validate:"required_if=DeveloperType company,omitempty,pan"`
	YearsActive   int    `json:"years_active"   validate:"omitempty,gte=0,lte=150"`
	About         string `json:"about"          validate:"omitempty,max=3000"`
}

// DeveloperPortfolio covers the track-record step, visible only for
// company-type developers.
type DeveloperPortfolio struct {
	ProjectsCompleted int      `json:"projects_completed" validate:"omitempty,gte=0,lte=1000"`
	ProjectsOngoing   int      `json:"projects_ongoing"   validate:"omitempty,gte=0,lte=1000"`
	Cities            []string `json:"cities"             validate:"omitempty,dive,min=2,max=80"`
}

// DeveloperContact covers the contact step.
type DeveloperContact struct {
	ContactName string `json:"contact_name" validate:"required,min=2,max=120"`
	Phone       string `json:"phone"        validate:"required,inphone"`
	Email       string `json:"email"        validate:"required,email"`
	Website     string `json:"website"      validate:"omitempty,url"`
}

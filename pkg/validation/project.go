package validation

// Step schemas for the project listing flow.

// ProjectBasics covers the opening step of the project flow.
type ProjectBasics struct {
	Title       string `json:"title"        validate:"required,min=5,max=120"`
	ProjectType string `json:"project_type" validate:"required,oneof=residential commercial mixed_use"`
	MultiPhase  bool   `json:"multi_phase"`
	ReraID      string `json:"rera_id"      validate:"omitempty,min=5,max=32"`
	Description string `json:"description"  validate:"omitempty,max=5000"`
}

// ProjectLocation covers the project's site details.
type ProjectLocation struct {
	City         string  `json:"city"           validate:"required,min=2,max=80"`
	Locality     string  `json:"locality"       validate:"required,min=2,max=120"`
	Pincode      string  `json:"pincode"        validate:"required,pincode"`
	LandAreaAcre float64 `json:"land_area_acre" validate:"omitempty,gt=0"`
}

// ProjectUnits covers unit mix and the project-level price band. The price
// ceiling must cover the floor, and the completion date is only required
// while the project is under construction.
type ProjectUnits struct {
	UnitTypes          []string `json:"unit_types"          validate:"required,min=1,dive,min=2,max=40"`
	PriceFrom          float64  `json:"price_from"          validate:"required,gt=0"`
	PriceTo            float64  `json:"price_to"            validate:"omitempty,gtefield=PriceFrom"`
	PossessionStatus   string   `json:"possession_status"   validate:"required,oneof=ready_to_move under_construction"`
	ExpectedCompletion string   `json:"expected_completion" validate:"required_if=PossessionStatus under_construction,omitempty,datetime=2006-01"`
}

// ProjectPhases covers the phasing step, visible only for multi-phase
// projects. The active phase must exist within the declared phase count.
type ProjectPhases struct {
	PhaseCount   int `json:"phase_count"   validate:"required,gte=2,lte=20"`
	CurrentPhase int `json:"current_phase" validate:"required,gte=1,ltefield=PhaseCount"`
}

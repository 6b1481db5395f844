package validation

// Step schemas for the property listing flow. Field names mirror the form
// data keys each step owns.

// PropertyBasics covers the opening step: what is being listed and how.
type PropertyBasics struct {
	Title            string `json:"title"             validate:"required,min=10,max=120"`
	ListingType      string `json:"listing_type"      validate:"required,oneof=sale rent"`
	PropertyCategory string `json:"property_category" validate:"required,oneof=residential commercial"`
	PropertyKind     string `json:"property_kind"     validate:"required,oneof=apartment villa independent_house plot office shop warehouse"`
	Description      string `json:"description"       validate:"omitempty,max=5000"`
}

// PropertyLocation covers the address step.
type PropertyLocation struct {
	City      string  `json:"city"      validate:"required,min=2,max=80"`
	Locality  string  `json:"locality"  validate:"required,min=2,max=120"`
	Address   string  `json:"address"   validate:"omitempty,max=500"`
	Pincode   string  `json:"pincode"   validate:"required,pincode"`
	Latitude  float64 `json:"latitude"  validate:"omitempty,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// PropertyProfile covers the physical profile of the unit. Two cross-field
// policies live here: the secondary area measurement must cover the carpet
// area, and the floor number must fit within the total floor count (the
// latter enforced by propertyProfileRules so the error lands on
// total_floors). An expected completion date is only required while the
// property is under construction.
type PropertyProfile struct {
	Bedrooms           int     `json:"bedrooms"            validate:"omitempty,gte=0,lte=20"`
	Bathrooms          int     `json:"bathrooms"           validate:"omitempty,gte=0,lte=20"`
	CarpetArea         float64 `json:"carpet_area"         validate:"required,gt=0"`
	SuperArea          float64 `json:"super_area"          validate:"omitempty,gtefield=CarpetArea"`
	FloorNumber        *int    `json:"floor_number"        validate:"omitempty,gte=0,lte=200"`
	TotalFloors        *int    `json:"total_floors"        validate:"omitempty,gte=0,lte=200"`
	PossessionStatus   string  `json:"possession_status"   validate:"required,oneof=ready_to_move under_construction"`
	ExpectedCompletion string  `json:"expected_completion" validate:"required_if=PossessionStatus under_construction,omitempty,datetime=2006-01"`
	Furnishing         string  `json:"furnishing"          validate:"omitempty,oneof=unfurnished semi_furnished furnished"`
}

// PropertyPricing covers the price step. A price ceiling, when given, must
// cover the base price.
type PropertyPricing struct {
	BasePrice          float64 `json:"base_price"          validate:"required,gt=0"`
	MaxPrice           float64 `json:"max_price"           validate:"omitempty,gtefield=BasePrice"`
	PriceNegotiable    bool    `json:"price_negotiable"`
	MaintenanceMonthly float64 `json:"maintenance_monthly" validate:"omitempty,gte=0"`
}

// PropertyAmenities covers the optional amenities step shown for residential
// listings.
type PropertyAmenities struct {
	Amenities    []string `json:"amenities"     validate:"omitempty,dive,min=2,max=60"`
	ParkingSpots int      `json:"parking_spots" validate:"omitempty,gte=0,lte=10"`
}

// CommercialProfile covers the extra step shown for commercial listings.
type CommercialProfile struct {
	CabinCount      int  `json:"cabin_count"      validate:"omitempty,gte=0,lte=500"`
	WashroomCount   int  `json:"washroom_count"   validate:"omitempty,gte=0,lte=100"`
	PantryAvailable bool `json:"pantry_available"`
}

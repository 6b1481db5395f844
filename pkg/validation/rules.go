package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Format rules shared by the step schemas. Postal codes, phone numbers and
// the tax id follow the formats the partner network operates with.
var (
	pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phoneRe   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	panRe     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

func registerFormatRules(v *validator.Validate) {
	mustRegister(v, "pincode", func(fl validator.FieldLevel) bool {
		return pincodeRe.MatchString(fl.Field().String())
	})

	mustRegister(v, "inphone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})

	mustRegister(v, "pan", func(fl validator.FieldLevel) bool {
		return panRe.MatchString(fl.Field().String())
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// propertyProfileRules enforces the floor cross-check: a floor number must
// not exceed the total floor count, and providing a floor number makes the
// total required. Both violations are attributed to the total-floors field.
func propertyProfileRules(sl validator.StructLevel) {
	profile, ok := sl.Current().Interface().(PropertyProfile)
	if !ok {
		return
	}

	if profile.FloorNumber == nil {
		return
	}

	switch {
	case profile.TotalFloors == nil:
		sl.ReportError(profile.TotalFloors, "total_floors", "TotalFloors", "required_with", "floor_number")
	case *profile.TotalFloors < *profile.FloorNumber:
		sl.ReportError(profile.TotalFloors, "total_floors", "TotalFloors", "gtefield", "floor_number")
	}
}

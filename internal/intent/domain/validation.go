package domain

import "website_backend/platform/validator"

// Validation tags registered by RegisterValidations.
const (
	TagIntent  = "intent"
	TagUrgency = "urgency"
)

// RegisterValidations adds the "intent" and "urgency" tags to val. Both
// accept the exact enum value only; empty strings are left to required.
func RegisterValidations(val *validator.Validator) error {
	if err := val.RegisterStringSet(TagIntent, func(s string) bool { return Intent(s).Valid() }); err != nil {
		return err
	}
	return val.RegisterStringSet(TagUrgency, func(s string) bool { return Urgency(s).Valid() })
}

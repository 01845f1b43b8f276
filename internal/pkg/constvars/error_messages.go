package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":       "is required",
	"email":          "must be a valid email",
	"min":            "must be at least %s characters long",
	"max":            "maximum at %s characters long",
	"len":            "must be %s characters long",
	"gt":             "must be greater than %s",
	"gte":            "must be greater than or equal to %s",
	"oneof":          "must be one of [%s]",
	"fiscal_code":    "must be a valid Italian fiscal code",
	"phone_number":   "must be a valid international phone number",
	"payment_method": "must be a known payment method",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"len":   true,
	"gt":    true,
	"gte":   true,
	"oneof": true,
}

package constvars

const (
	RegexEmail       = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`
	RegexPhoneNumber = `^\+[1-9]\d{6,14}$`
	RegexFiscalCode  = `^[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]$`
	RegexNumericZIP  = `^\d{5}$`
)

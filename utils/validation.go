package utils

import (
	"regexp"
	"strings"
)

const WhatsAppPrefix = "whatsapp:"

// E.164: optional plus, no leading zero, at most 15 digits.
var e164 = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

var numberPunctuation = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// ValidateAddress reports whether addr is a Twilio destination: an E.164
// number, optionally written with spaces, dashes or parentheses, and
// optionally prefixed with "whatsapp:".
func ValidateAddress(addr string) bool {
	number := strings.TrimPrefix(addr, WhatsAppPrefix)
	return e164.MatchString(numberPunctuation.Replace(number))
}

func IsWhatsApp(addr string) bool {
	return strings.HasPrefix(addr, WhatsAppPrefix)
}

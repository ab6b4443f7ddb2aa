package partner

import (
	"strings"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/ttacon/libphonenumber"
)

// DefaultPhoneRegion is used when a number is written without country code
const DefaultPhoneRegion = "BR"

// NormalizePhone parses a user-entered phone and returns it in E.164 form.
// Empty input returns an empty string.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := libphonenumber.Parse(raw, region)
	if err != nil {
		return "", shared.NewValidationError("phone number is not valid: " + err.Error())
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", shared.NewValidationError("phone number is not valid")
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

// DisplayPhone formats an E.164 number for printing, e.g. "+55 11 98765-4321".
// Unparseable input is returned unchanged.
func DisplayPhone(e164 string) string {
	if e164 == "" {
		return ""
	}
	num, err := libphonenumber.Parse(e164, DefaultPhoneRegion)
	if err != nil {
		return e164
	}
	return libphonenumber.Format(num, libphonenumber.INTERNATIONAL)
}

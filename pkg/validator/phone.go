package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and an optional leading +")

	// ErrInvalidLength indicates a local number that is not 10 digits or an
	// international number outside the E.164 length range
	ErrInvalidLength = errors.New("phone number has an invalid length")

	// ErrInvalidPrefix indicates a local number without a Sri Lankan mobile prefix
	ErrInvalidPrefix = errors.New("local phone number must start with 070, 071, 072, 074, 075, 076, 077, 078 or 079")
)

// validPrefixes contains all valid Sri Lankan mobile operator prefixes
var validPrefixes = map[string]struct{}{
	"070": {}, "071": {}, "072": {}, "074": {}, "075": {},
	"076": {}, "077": {}, "078": {}, "079": {},
}

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// separators are stripped before validation: "077 123-4567", "(077) 123.4567"
var separators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone validates a passenger contact number and returns its
// canonical form. Sri Lankan numbers, with or without the 94 country code,
// become 07XXXXXXXX; other numbers must be written with a leading + and are
// kept as +<digits>.
func NormalizePhone(phone string) (string, error) {
	phone = separators.Replace(strings.TrimSpace(phone))
	if phone == "" {
		return "", ErrEmptyPhone
	}

	international := strings.HasPrefix(phone, "+")
	digits := strings.TrimPrefix(phone, "+")
	if !digitsRegex.MatchString(digits) {
		return "", ErrInvalidFormat
	}

	if strings.HasPrefix(digits, "94") && len(digits) == 11 {
		return local("0" + digits[2:])
	}
	if international {
		if len(digits) < 8 || len(digits) > 15 {
			return "", ErrInvalidLength
		}
		return "+" + digits, nil
	}
	return local(digits)
}

func local(digits string) (string, error) {
	if len(digits) != 10 {
		return "", ErrInvalidLength
	}
	if _, ok := validPrefixes[digits[:3]]; !ok {
		return "", ErrInvalidPrefix
	}
	return digits, nil
}

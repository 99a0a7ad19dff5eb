package contacts

import (
	"fmt"
	"strings"
)

// DialPlan is the configured canonicalization policy: country code, default
// area code, and the digit that marks a subscriber number as mobile.
type DialPlan struct {
	CountryCode string
	AreaCode    string
	MarkerDigit byte
}

// DefaultDialPlan is the Brazilian mobile numbering policy.
var DefaultDialPlan = DialPlan{CountryCode: "55", AreaCode: "31", MarkerDigit: '9'}

// PlanFromPrefix derives a DialPlan from a single configured dial prefix
// such as "5531" (country "55", area "31"). Prefixes shorter than 4 digits
// fall back to the supplied plan's country and area codes.
func PlanFromPrefix(prefix string, fallback DialPlan) DialPlan {
	digits := digitsOnly(prefix)
	plan := fallback
	if len(digits) >= 4 {
		plan.CountryCode = digits[0:2]
		plan.AreaCode = digits[2:4]
	}
	return plan
}

// Number is a canonical 13-digit dialable mobile number.
type Number struct {
	Canonical string
}

// Display renders the canonical digits as "+CC (AA) NFFFF-LLLL".
func (n Number) Display() string {
	c := n.Canonical
	if len(c) != canonicalLen {
		return ""
	}
	return fmt.Sprintf("+%s (%s) %s-%s", c[0:2], c[2:4], c[4:9], c[9:13])
}

const canonicalLen = 13

// Normalize reduces a loosely-formatted phone string to its canonical
// 13-digit form under the given plan, or explains why it cannot.
//
// Precedence table, first match wins:
//
//	blank input                      -> empty_input
//	bad trailing hyphen group        -> malformed_separator
//	8 digits  (local, no marker)     -> CC+AA+digits, fails the 13-digit check
//	9 digits  (local with marker)    -> CC+AA+digits
//	10 digits (area, no marker)      -> CC+AA'+marker+subscriber
//	11 digits (area with marker)     -> CC+digits, area not required to match
//	12 digits (country, no marker)   -> insert marker after area; CC must match
//	13 digits (fully qualified)      -> identity; CC must match
//	other lengths                    -> invalid_length
//
// Every branch's candidate is re-validated: exactly 13 digits with the
// marker digit in position 5, otherwise not_mobile_format.
func Normalize(raw string, plan DialPlan) (Number, *Rejection) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Number{}, &Rejection{Code: RejectEmptyInput, Detail: "phone field is blank"}
	}

	digits := digitsOnly(trimmed)

	if strings.Contains(trimmed, "-") {
		if rej := checkSeparator(trimmed); rej != nil {
			return Number{}, rej
		}
	}

	var candidate string
	switch len(digits) {
	case 8, 9:
		candidate = plan.CountryCode + plan.AreaCode + digits
	case 10:
		candidate = plan.CountryCode + digits[0:2] + string(plan.MarkerDigit) + digits[2:10]
	case 11:
		candidate = plan.CountryCode + digits
	case 12:
		if !strings.HasPrefix(digits, plan.CountryCode) {
			return Number{}, &Rejection{
				Code:   RejectMissingCountryCode,
				Detail: fmt.Sprintf("12-digit number does not start with country code %s", plan.CountryCode),
			}
		}
		candidate = digits[0:4] + string(plan.MarkerDigit) + digits[4:12]
	case canonicalLen:
		if !strings.HasPrefix(digits, plan.CountryCode) {
			return Number{}, &Rejection{
				Code:   RejectMissingCountryCode,
				Detail: fmt.Sprintf("13-digit number does not start with country code %s", plan.CountryCode),
			}
		}
		candidate = digits
	default:
		return Number{}, &Rejection{
			Code:   RejectInvalidLength,
			Detail: fmt.Sprintf("got %d digits, expected 8-13", len(digits)),
		}
	}

	if len(candidate) != canonicalLen || candidate[4] != plan.MarkerDigit {
		return Number{}, &Rejection{
			Code:   RejectNotMobileFormat,
			Detail: fmt.Sprintf("candidate %q is not a %c-prefixed mobile subscriber number", candidate, plan.MarkerDigit),
		}
	}
	return Number{Canonical: candidate}, nil
}

// checkSeparator guards against phone-shaped inputs with a truncated or
// padded trailing group: the text after the hyphen must reduce to exactly
// 4 digits, and there must be exactly one hyphen.
func checkSeparator(raw string) *Rejection {
	if strings.Count(raw, "-") != 1 {
		return &Rejection{Code: RejectMalformedSeparator, Detail: "more than one hyphen separator"}
	}
	tail := raw[strings.LastIndex(raw, "-")+1:]
	if n := len(digitsOnly(tail)); n != 4 {
		return &Rejection{
			Code:   RejectMalformedSeparator,
			Detail: fmt.Sprintf("%d digits after the hyphen, expected 4", n),
		}
	}
	return nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

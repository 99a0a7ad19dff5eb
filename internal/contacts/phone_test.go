package contacts

import (
	"strings"
	"testing"
)

var testPlan = DialPlan{CountryCode: "55", AreaCode: "31", MarkerDigit: '9'}

func TestNormalizeLengthBuckets(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		canonical string
		code      RejectionCode
	}{
		{"canonical passes unchanged", "5531987654321", "5531987654321", ""},
		{"canonical with formatting", "+55 (31) 98765-4321", "5531987654321", ""},
		{"11 digits gets country code", "31987654321", "5531987654321", ""},
		{"11 digits keeps foreign area code", "11987654321", "5511987654321", ""},
		{"10 digits gets marker inferred", "3187654321", "5531987654321", ""},
		{"12 digits gets marker inserted", "551187654321", "5511987654321", ""},
		{"12 digits marker-first subscriber", "551198765432", "5511998765432", ""},
		{"9 digits gets country and area", "987654321", "5531987654321", ""},
		{"blank", "", "", RejectEmptyInput},
		{"whitespace only", "   ", "", RejectEmptyInput},
		{"8 digits lacks marker", "87654321", "", RejectNotMobileFormat},
		{"9 digits without marker first", "887654321", "", RejectNotMobileFormat},
		{"11 digits without marker", "31887654321", "", RejectNotMobileFormat},
		{"12 digits wrong country", "441198765432", "", RejectMissingCountryCode},
		{"13 digits wrong country", "4431987654321", "", RejectMissingCountryCode},
		{"too short", "1234567", "", RejectInvalidLength},
		{"too long", "55319876543210", "", RejectInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, rej := Normalize(tt.raw, testPlan)
			if tt.code == "" {
				if rej != nil {
					t.Fatalf("expected accept, got %s (%s)", rej.Code, rej.Detail)
				}
				if number.Canonical != tt.canonical {
					t.Fatalf("canonical = %q, want %q", number.Canonical, tt.canonical)
				}
				return
			}
			if rej == nil {
				t.Fatalf("expected rejection %s, got canonical %q", tt.code, number.Canonical)
			}
			if rej.Code != tt.code {
				t.Fatalf("rejection code = %s, want %s", rej.Code, tt.code)
			}
			if rej.Detail == "" {
				t.Fatalf("rejection %s has no detail", rej.Code)
			}
		})
	}
}

func TestNormalizeSeparatorPreCheck(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		code RejectionCode
	}{
		{"short trailing group", "123-45", RejectMalformedSeparator},
		{"short group phone shaped", "1234-567", RejectMalformedSeparator},
		{"two hyphens", "31-98765-4321", RejectMalformedSeparator},
		{"valid group proceeds to length dispatch", "1234-5678", RejectNotMobileFormat},
		{"full display form passes", "98765-4321", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rej := Normalize(tt.raw, testPlan)
			if tt.code == "" {
				if rej != nil {
					t.Fatalf("expected accept, got %s", rej.Code)
				}
				return
			}
			if rej == nil || rej.Code != tt.code {
				t.Fatalf("got %v, want code %s", rej, tt.code)
			}
		})
	}
}

func TestNormalizeInvalidLengthDetail(t *testing.T) {
	_, rej := Normalize("12345", testPlan)
	if rej == nil || rej.Code != RejectInvalidLength {
		t.Fatalf("expected invalid_length, got %v", rej)
	}
	if !strings.Contains(rej.Detail, "5 digits") {
		t.Fatalf("detail should report observed digit count, got %q", rej.Detail)
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	number, rej := Normalize("31987654321", testPlan)
	if rej != nil {
		t.Fatalf("normalize: %v", rej)
	}
	display := number.Display()
	if display != "+55 (31) 98765-4321" {
		t.Fatalf("display = %q", display)
	}
	again, rej := Normalize(display, testPlan)
	if rej != nil {
		t.Fatalf("normalize display form: %v", rej)
	}
	if again.Canonical != number.Canonical {
		t.Fatalf("round trip changed canonical: %q vs %q", again.Canonical, number.Canonical)
	}
}

func TestPlanFromPrefix(t *testing.T) {
	plan := PlanFromPrefix("5511", DefaultDialPlan)
	if plan.CountryCode != "55" || plan.AreaCode != "11" {
		t.Fatalf("unexpected plan %+v", plan)
	}
	if plan.MarkerDigit != '9' {
		t.Fatalf("marker digit should come from the fallback plan")
	}

	// Short or messy prefixes keep the fallback codes.
	plan = PlanFromPrefix("55", DefaultDialPlan)
	if plan.CountryCode != "55" || plan.AreaCode != "31" {
		t.Fatalf("short prefix should fall back, got %+v", plan)
	}
	plan = PlanFromPrefix("+55 (21)", DefaultDialPlan)
	if plan.CountryCode != "55" || plan.AreaCode != "21" {
		t.Fatalf("formatted prefix should still parse, got %+v", plan)
	}
}

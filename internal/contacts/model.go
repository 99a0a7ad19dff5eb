package contacts

// RawContact is one input row: column name to raw value, plus the 1-based
// position of the row in the source table.
type RawContact struct {
	Row    int
	Fields map[string]string
}

// FieldMapping tells the classifier which columns hold the logical name and
// phone fields. How the mapping was produced is the caller's business.
type FieldMapping struct {
	NameColumn  string
	PhoneColumn string
}

// RejectionCode labels the failure modes of normalization and classification.
type RejectionCode string

const (
	RejectEmptyInput         RejectionCode = "empty_input"
	RejectMalformedSeparator RejectionCode = "malformed_separator"
	RejectInvalidLength      RejectionCode = "invalid_length"
	RejectMissingCountryCode RejectionCode = "missing_country_code"
	RejectNotMobileFormat    RejectionCode = "not_mobile_format"
	RejectMissingName        RejectionCode = "missing_name"
)

// Rejection carries a rejection code plus human-readable detail.
type Rejection struct {
	Code   RejectionCode
	Detail string
}

// Accepted is a row that passed the name check and phone normalization.
// Fields keeps the full original row for downstream reporting.
type Accepted struct {
	Row       int
	Name      string
	Canonical string
	Display   string
	Fields    map[string]string
}

// Rejected is a row that failed classification. The original fields are
// preserved verbatim so callers can export failures for manual correction.
type Rejected struct {
	Row    int
	Fields map[string]string
	Reason Rejection
}

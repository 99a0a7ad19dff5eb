package contacts

import (
	"errors"
	"strings"
)

// Classify partitions rows into accepted and rejected records, preserving
// the relative input order in both slices. A row is accepted when its phone
// normalizes under the plan and its name field is non-blank; a valid phone
// with a blank name is rejected as missing_name, and a failing phone wins
// over a blank name. Rows are never dropped or duplicated.
//
// An empty mapping is a precondition failure and aborts before any row is
// touched.
func Classify(rows []RawContact, mapping FieldMapping, plan DialPlan) ([]Accepted, []Rejected, error) {
	if strings.TrimSpace(mapping.NameColumn) == "" || strings.TrimSpace(mapping.PhoneColumn) == "" {
		return nil, nil, errors.New("contacts: name and phone column mapping required")
	}

	accepted := make([]Accepted, 0, len(rows))
	rejected := make([]Rejected, 0)
	for _, row := range rows {
		name := strings.TrimSpace(row.Fields[mapping.NameColumn])
		rawPhone := row.Fields[mapping.PhoneColumn]

		number, rej := Normalize(rawPhone, plan)
		if rej != nil {
			rejected = append(rejected, Rejected{Row: row.Row, Fields: row.Fields, Reason: *rej})
			continue
		}
		if name == "" {
			rejected = append(rejected, Rejected{
				Row:    row.Row,
				Fields: row.Fields,
				Reason: Rejection{Code: RejectMissingName, Detail: "name field is blank"},
			})
			continue
		}
		accepted = append(accepted, Accepted{
			Row:       row.Row,
			Name:      name,
			Canonical: number.Canonical,
			Display:   number.Display(),
			Fields:    row.Fields,
		})
	}
	return accepted, rejected, nil
}

package relation

import (
	"fmt"

	apperrors "relation-kg/backend/pkg/errors"
)

// Record is one person-to-person relation quadruple.
//
// ID is positional: it is assigned on every read and is only valid until the
// next mutation of the relation file. It is never written back.
type Record struct {
	ID            int    `json:"id"`
	Person1       string `json:"person1"`
	SmallRelation string `json:"small_relation"`
	BigRelation   string `json:"big_relation"`
	Person2       string `json:"person2"`
}

// Involves reports whether name appears on either side of the relation
func (r Record) Involves(name string) bool {
	return r.Person1 == name || r.Person2 == name
}

// Fields is the full field set required to create a relation
type Fields struct {
	Person1       string `json:"person1"`
	SmallRelation string `json:"small_relation"`
	BigRelation   string `json:"big_relation"`
	Person2       string `json:"person2"`
}

// Patch carries a partial update; nil fields keep their current value
type Patch struct {
	Person1       *string `json:"person1"`
	SmallRelation *string `json:"small_relation"`
	BigRelation   *string `json:"big_relation"`
	Person2       *string `json:"person2"`
}

// IDPolicy selects how positional ids are derived on read
type IDPolicy int

const (
	// IDFromLine numbers records by their raw line position after the header,
	// so blank or short lines still consume an id.
	IDFromLine IDPolicy = iota
	// IDFromRecord numbers only the rows that parsed into a record.
	IDFromRecord
)

// ParseIDPolicy maps a configured policy name ("line" or "record") to an
// IDPolicy. An empty name selects IDFromLine.
func ParseIDPolicy(name string) (IDPolicy, error) {
	switch name {
	case "", "line":
		return IDFromLine, nil
	case "record":
		return IDFromRecord, nil
	default:
		return IDFromLine, apperrors.NewValidation("id_policy", fmt.Sprintf("unknown id policy %q, expected line or record", name))
	}
}

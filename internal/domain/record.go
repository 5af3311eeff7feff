// Package domain provides the record and result models shared by the
// author matching engine.
package domain

import (
	"sort"
	"strings"
)

// Identifier schemes recognized on author records, in the priority order
// used when two records are compared by identifier.
const (
	IDInspire    = "inspire_id"
	IDORCID      = "orcid"
	IDInspireBAI = "inspire_bai"
	IDRecord     = "record"
	IDUUID       = "uuid"
)

// IdentifierSchemes lists the recognized identifier schemes, highest priority first.
var IdentifierSchemes = []string{IDInspire, IDORCID, IDInspireBAI, IDRecord, IDUUID}

// Record is one author entry from an author list. Records are treated as
// values: the engine never mutates them.
type Record struct {
	FullName     string            `json:"full_name" validate:"required"`
	IDs          map[string]string `json:"ids,omitempty"`
	Affiliations []string          `json:"affiliations,omitempty"`
}

// ID returns the trimmed identifier stored under scheme.
func (r Record) ID(scheme string) (string, bool) {
	v, ok := r.IDs[scheme]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// HasAnyID reports whether the record carries a non-empty identifier for
// any of the given schemes.
func (r Record) HasAnyID(schemes ...string) bool {
	for _, s := range schemes {
		if _, ok := r.ID(s); ok {
			return true
		}
	}
	return false
}

// String returns a formatted string representation of the record.
func (r Record) String() string {
	var sb strings.Builder
	sb.WriteString(r.FullName)

	if len(r.Affiliations) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(r.Affiliations, "; "))
		sb.WriteString(")")
	}

	if len(r.IDs) > 0 {
		schemes := make([]string, 0, len(r.IDs))
		for s := range r.IDs {
			schemes = append(schemes, s)
		}
		sort.Strings(schemes)

		sb.WriteString(" [")
		for i, s := range schemes {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(s)
			sb.WriteString("=")
			sb.WriteString(r.IDs[s])
		}
		sb.WriteString("]")
	}

	return sb.String()
}

package domain

import "strings"

// UserVariant is one lookup key parsed from a user-supplied raw
// genotype file, together with the caller-side call it was observed
// with. It is produced by the raw-file reader and consumed only by the
// batch matcher; the core never mutates it.
type UserVariant struct {
	// RSID is the variant identifier, normalised to lower case by the
	// reader. The core does not re-validate its syntax.
	RSID string

	// Genotype is the observed call, e.g. "AG".
	Genotype string

	// Chromosome and Position are the coordinates as reported by the
	// raw file, carried through verbatim.
	Chromosome string
	Position   string
}

// NormalizedID returns the RSID trimmed and lowercased. All key
// comparisons against the dataset use this form.
func (v UserVariant) NormalizedID() string {
	return strings.ToLower(strings.TrimSpace(v.RSID))
}

// Match pairs a UserVariant with the dataset record sharing its key.
// Matches are constructed per match call and never persisted. A key
// appearing more than once in the input yields one Match per occurrence.
type Match struct {
	// Input is the user's lookup key and metadata.
	Input UserVariant

	// Record is the dataset row whose ID equals the input's RSID
	// under case-insensitive comparison.
	Record VariantRecord
}

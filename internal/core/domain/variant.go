package domain

// VariantRecord represents one row of the resident variant annotation
// dataset. The record is immutable after load; the dataset is read-only
// for the lifetime of the process.
//
// ID is the only mandatory attribute. Every other attribute is a
// nullable scalar, represented as a pointer that is nil when the
// dataset column is NULL.
type VariantRecord struct {
	// ID is the variant identifier (rsID). Unique within the dataset
	// and compared case-insensitively.
	ID string

	// Location.
	Chromosome  *string
	Position    *int64
	Assembly    *string
	Cytogenetic *string

	// Alleles.
	ReferenceAllele *string
	AlternateAllele *string
	VariantType     *string

	// Gene annotation.
	Gene        *string
	GeneAliases *string
	Transcript  *string
	Consequence *string

	// Clinical annotation.
	Significance         *string
	ReviewStatus         *string
	Condition            *string
	PhenotypeIDs         *string
	Origin               *string
	MolecularConsequence *string

	// Nomenclature.
	HGVSCoding  *string
	HGVSProtein *string
	Accession   *string
	AlleleID    *int64

	// Population frequencies.
	GnomadFrequency          *float64
	ThousandGenomesFrequency *float64

	// Provenance.
	DBSNPBuild     *int64
	SubmitterCount *int64
	LastEvaluated  *string
	RecordURL      *string
}

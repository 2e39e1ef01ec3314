package sqlite

import (
	"strings"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
)

// clause pairs one SQL predicate fragment with its bound values,
// keeping fragment and parameter order in lock-step. Clauses are
// AND-joined; a criterion that is empty after trimming contributes
// no clause at all.
type clause struct {
	expr string
	args []any
}

// buildClauses translates filter criteria into an ordered clause list.
//
// The free-text term is an OR-group of substring containment across the
// searchable columns; chromosome is exact equality; significance uses
// containment rather than equality because its values are compound
// (e.g. "Pathogenic/Likely pathogenic"). SQLite's LIKE is
// case-insensitive for ASCII, which covers the dataset's vocabulary.
func buildClauses(criteria domain.FilterCriteria) []clause {
	var clauses []clause

	if term := strings.TrimSpace(criteria.Query); term != "" {
		pattern := likePattern(term)
		clauses = append(clauses, clause{
			expr: "(id LIKE ? ESCAPE '\\' OR gene LIKE ? ESCAPE '\\' OR gene_aliases LIKE ? ESCAPE '\\'" +
				" OR condition LIKE ? ESCAPE '\\' OR significance LIKE ? ESCAPE '\\')",
			args: []any{pattern, pattern, pattern, pattern, pattern},
		})
	}

	if chrom := strings.TrimSpace(criteria.Chromosome); chrom != "" {
		clauses = append(clauses, clause{
			expr: "chromosome = ?",
			args: []any{chrom},
		})
	}

	if gene := strings.TrimSpace(criteria.Gene); gene != "" {
		pattern := likePattern(gene)
		clauses = append(clauses, clause{
			expr: "(gene LIKE ? ESCAPE '\\' OR gene_aliases LIKE ? ESCAPE '\\')",
			args: []any{pattern, pattern},
		})
	}

	if significance := strings.TrimSpace(criteria.Significance); significance != "" {
		clauses = append(clauses, clause{
			expr: "significance LIKE ? ESCAPE '\\'",
			args: []any{likePattern(significance)},
		})
	}

	if condition := strings.TrimSpace(criteria.Condition); condition != "" {
		clauses = append(clauses, clause{
			expr: "condition LIKE ? ESCAPE '\\'",
			args: []any{likePattern(condition)},
		})
	}

	return clauses
}

// whereSQL folds clauses into one WHERE fragment plus its parameter
// list. An empty clause list yields an empty fragment, never a
// vacuous-true or vacuous-false predicate.
func whereSQL(clauses []clause) (string, []any) {
	if len(clauses) == 0 {
		return "", nil
	}

	exprs := make([]string, len(clauses))
	var args []any
	for i, c := range clauses {
		exprs[i] = c.expr
		args = append(args, c.args...)
	}

	return " WHERE " + strings.Join(exprs, " AND "), args
}

// likeEscaper neutralises LIKE metacharacters so a user term only ever
// matches as a literal substring. Every LIKE clause carries ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
	"github.com/custodia-labs/varsearch-cli/internal/logger"
)

// parseRawFile reads a tab-separated raw genotype export. Expected
// columns are rsid, chromosome, position, genotype. Comment lines
// starting with '#' and blank lines are skipped; short or malformed
// data lines are skipped with a debug note rather than aborting the
// whole file.
func parseRawFile(r io.Reader) ([]domain.UserVariant, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var variants []domain.UserVariant
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			logger.Debug("Skipping malformed line %d: %d columns", lineNo, len(fields))
			continue
		}

		variants = append(variants, domain.UserVariant{
			RSID:       strings.ToLower(strings.TrimSpace(fields[0])),
			Chromosome: strings.TrimSpace(fields[1]),
			Position:   strings.TrimSpace(fields[2]),
			Genotype:   strings.TrimSpace(fields[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading raw genotype file: %w", err)
	}

	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: no variant lines found", domain.ErrInvalidInput)
	}
	return variants, nil
}

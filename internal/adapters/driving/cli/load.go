package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
)

// loadDataset downloads and materialises the dataset, showing a
// percentage line while it runs. A store that is already loaded is
// fine: commands share one loaded dataset per process.
func loadDataset(ctx context.Context, cmd *cobra.Command, url string) error {
	cmd.Printf("Loading dataset from %s...\n", url)

	lastPercent := -1
	err := engineService.Load(ctx, url, func(percent int) {
		if percent > lastPercent {
			cmd.Printf("\rLoading... %d%%", percent)
			lastPercent = percent
		}
	})
	if lastPercent >= 0 {
		cmd.Println()
	}

	if errors.Is(err, domain.ErrAlreadyLoaded) {
		return nil
	}
	return err
}

// Command wxdex-analyze is the analyze-raw CLI collaborator spec.md §6
// names: it runs the C8 analyzer pipeline over every unanalyzed row in
// the raw_cards table, upserting each into the canonical card table.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardindex/wxdex/internal/analyze"
	"github.com/cardindex/wxdex/internal/config"
	"github.com/cardindex/wxdex/internal/rules"
	"github.com/cardindex/wxdex/internal/store"
)

func main() {
	var retryFailed bool

	root := &cobra.Command{
		Use:   "wxdex-analyze",
		Short: "classify every unanalyzed raw card into the canonical table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.DatabaseDSN)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			analyzer, err := analyze.New(ctx, st, rules.Bank)
			if err != nil {
				return fmt.Errorf("build analyzer: %w", err)
			}

			raws, err := st.ListUnanalyzedRawCards(ctx)
			if err != nil {
				return fmt.Errorf("list unanalyzed raw cards: %w", err)
			}

			var failed int
			for _, raw := range raws {
				if err := analyzer.AnalyzeOne(ctx, raw); err != nil {
					slog.With("code", raw.Code).Warn(fmt.Sprintf("wxdex-analyze: card failed, continuing batch: %v", err))
					if markErr := st.MarkRawCardFailed(ctx, raw.Code, time.Now().UTC().Format(time.RFC3339), err.Error()); markErr != nil {
						slog.With("code", raw.Code).Error(fmt.Sprintf("wxdex-analyze: record failure: %v", markErr))
					}
					failed++
					continue
				}
			}
			fmt.Printf("analyzed %d/%d raw cards (%d failed)\n", len(raws)-failed, len(raws), failed)
			if failed > 0 && !retryFailed {
				return fmt.Errorf("%d cards failed analysis", failed)
			}
			return nil
		},
	}
	root.Flags().BoolVar(&retryFailed, "ignore-failures", false, "exit 0 even if some cards failed analysis")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "wxdex-analyze:", err)
		os.Exit(1)
	}
}

// Command wxdex-sync is the sync CLI collaborator spec.md §6 names: a
// push subcommand that sends every local feature override to the
// admin backend, and a pull subcommand that imports remote overrides
// newer than the local copy.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardindex/wxdex/internal/config"
	"github.com/cardindex/wxdex/internal/store"
	"github.com/cardindex/wxdex/internal/syncx"
)

func openStoreAndSyncer(ctx context.Context) (*store.Store, *syncx.HTTPSyncer, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.SyncEndpoint == "" {
		return nil, nil, nil, fmt.Errorf("sync_endpoint is not configured")
	}

	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}

	syncer := syncx.NewHTTPSyncer(cfg.SyncEndpoint, cfg.SyncAPIKey, nil)
	return st, syncer, func() { st.Close() }, nil
}

func main() {
	root := &cobra.Command{
		Use:   "wxdex-sync",
		Short: "push or pull feature overrides against the admin backend",
	}

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "push every local feature override to the admin backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, syncer, closeFn, err := openStoreAndSyncer(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := syncx.PushAll(cmd.Context(), st, syncer)
			if err != nil {
				return fmt.Errorf("push: %w", err)
			}
			fmt.Printf("pushed: received=%d created=%d updated=%d\n", result.Received, result.Created, result.Updated)
			for _, e := range result.Errors {
				slog.Warn(fmt.Sprintf("wxdex-sync: remote error: %v", e))
			}
			return nil
		},
	}

	var sinceFlag string
	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "pull feature overrides updated since an optional timestamp",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, syncer, closeFn, err := openStoreAndSyncer(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var since *time.Time
			if sinceFlag != "" {
				t, err := time.Parse(time.RFC3339, sinceFlag)
				if err != nil {
					return fmt.Errorf("parse --since: %w", err)
				}
				since = &t
			}

			imported, err := syncx.PullAll(cmd.Context(), st, syncer, since)
			if err != nil {
				return fmt.Errorf("pull: %w", err)
			}
			fmt.Printf("imported %d feature overrides\n", imported)
			return nil
		},
	}
	pullCmd.Flags().StringVar(&sinceFlag, "since", "", "RFC3339 timestamp; omit to pull every override")

	root.AddCommand(pushCmd, pullCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "wxdex-sync:", err)
		os.Exit(1)
	}
}

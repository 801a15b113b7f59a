package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trackstars/trackstars/internal/applog"
	"github.com/trackstars/trackstars/internal/config"
	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/gitops"
	"github.com/trackstars/trackstars/internal/storage"
)

func newInitCommand() *cobra.Command {
	var displayCurrency string
	var backend string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a TrackStars data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			} else if f := cmd.Flag("dir"); f != nil && f.Changed {
				dir = f.Value.String()
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, displayCurrency, backend, useGit)
		},
	}

	cmd.Flags().StringVar(&displayCurrency, "display-currency", string(currency.Base), "currency global summaries convert to")
	cmd.Flags().StringVar(&backend, "backend", storage.BackendFlatFile, "storage backend (flatfile or sqlite)")
	cmd.Flags().BoolVar(&useGit, "git", false, "version the data directory with git")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, displayCurrency, backend string, useGit bool) error {
	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	cfg.Storage.Backend = backend
	cfg.Git.Enabled = useGit
	cfg.Display.Currency = displayCurrency
	if code, err := currency.Parse(displayCurrency); err == nil {
		cfg.Display.Currency = string(code)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	for _, d := range []string{"logs", "import", filepath.Join("import", "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write trackstars.yaml.
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the data files, keeping any state already there.
	log, logFile, err := applog.New(cfg.Log, dir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	store, err := storage.Open(ctx, storage.Options{Backend: backend, Dir: dir, SQLitePath: cfg.Storage.SQLitePath}, log)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if err := store.SaveBanks(ctx, snap.Banks); err != nil {
		return fmt.Errorf("writing banks: %w", err)
	}
	if err := store.SaveTransactions(ctx, snap.Banks); err != nil {
		return fmt.Errorf("writing transactions: %w", err)
	}
	if err := store.SaveBudgets(ctx, snap.Budgets); err != nil {
		return fmt.Errorf("writing budgets: %w", err)
	}
	log.WithField("dir", dir).Info("Initialized data directory")

	if useGit {
		repo := gitops.Open(dir)
		if err := repo.Init(); err != nil {
			return err
		}
		hash, err := repo.Commit("init: trackstars data directory")
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Fprintf(out, "Initialized git repository (commit %s)\n", hash)
	}

	fmt.Fprintf(out, "Initialized TrackStars data directory at %s\n", dir)
	return nil
}

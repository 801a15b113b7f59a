package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/trackstars/trackstars/internal/applog"
	"github.com/trackstars/trackstars/internal/config"
	"github.com/trackstars/trackstars/internal/gitops"
	"github.com/trackstars/trackstars/internal/storage"
	"github.com/trackstars/trackstars/internal/tracker"
)

// noBank is the --bank default: stay logged out.
const noBank = -1

type rootOptions struct {
	dir        string
	configPath string
}

// session is one command's view of the data directory.
type session struct {
	tr      *tracker.Tracker
	cfg     *config.Config
	log     *logrus.Logger
	logFile io.Closer
}

func (o *rootOptions) resolve() (dir, configPath string, err error) {
	dir, err = filepath.Abs(o.dir)
	if err != nil {
		return "", "", fmt.Errorf("resolving path: %w", err)
	}
	configPath = o.configPath
	if configPath == "" {
		configPath = filepath.Join(dir, config.FileName)
	}
	return dir, configPath, nil
}

// open loads .env, config, the log file and the tracker state.
func (o *rootOptions) open(ctx context.Context) (*session, error) {
	dir, configPath, err := o.resolve()
	if err != nil {
		return nil, err
	}
	if err := loadDotEnv(dir); err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	log, logFile, err := applog.New(cfg.Log, dir)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, storage.Options{
		Backend:    cfg.Storage.Backend,
		Dir:        dir,
		SQLitePath: cfg.Storage.SQLitePath,
	}, log)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	opts := tracker.Options{
		Dir:             dir,
		Store:           store,
		Log:             log,
		DisplayCurrency: cfg.DisplayCurrency(),
		RecentLimit:     cfg.Display.RecentLimit,
	}
	if cfg.Git.Enabled {
		if repo := gitops.Open(dir); repo.IsRepo() {
			opts.Versioner = repo
		} else {
			log.WithField("dir", dir).Warn("git enabled but data directory is not a repository")
		}
	}
	tr, err := tracker.Open(ctx, opts)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, err
	}
	return &session{tr: tr, cfg: cfg, log: log, logFile: logFile}, nil
}

// loadDotEnv reads <dir>/.env if present. Variables already set win.
func loadDotEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func (s *session) Close() error {
	err := s.tr.Close()
	if cerr := s.logFile.Close(); err == nil {
		err = cerr
	}
	return err
}

// login makes bank current unless it is noBank.
func (s *session) login(bank int) error {
	if bank == noBank {
		return nil
	}
	_, err := s.tr.Login(bank)
	return err
}

// withSession opens a session, logs into bank and runs fn.
func withSession(cmd *cobra.Command, opts *rootOptions, bank int, fn func(*session) error) error {
	s, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.login(bank); err != nil {
		return err
	}
	return fn(s)
}

func addBankFlag(cmd *cobra.Command, bank *int, required bool) {
	cmd.Flags().IntVar(bank, "bank", noBank, "bank id to act on")
	if required {
		_ = cmd.MarkFlagRequired("bank")
	}
}

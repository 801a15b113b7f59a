// Package gitops versions a data directory with the git CLI so every
// mutation leaves a commit behind.
package gitops

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Commit identity used for automatic snapshots.
const (
	AuthorName  = "TrackStars"
	AuthorEmail = "trackstars@localhost"
)

// ErrGitNotFound is returned when no git executable is on PATH.
var ErrGitNotFound = errors.New("git executable not found")

// ignored keeps local-only files out of history.
var ignored = []string{"trackstars.log", "*.db-journal", "*.db-wal", "*.db-shm"}

// Repo is a git working tree rooted at a data directory.
type Repo struct {
	dir string
}

// Open returns a Repo for dir. It does not touch the filesystem.
func Open(dir string) *Repo {
	return &Repo{dir: dir}
}

// Available reports whether a git executable is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Dir returns the working tree root.
func (r *Repo) Dir() string { return r.dir }

// IsRepo reports whether the directory has been initialized.
func (r *Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.dir, ".git"))
	return err == nil
}

// Init creates the repository and a .gitignore for local-only files.
func (r *Repo) Init() error {
	if !Available() {
		return ErrGitNotFound
	}
	if _, err := r.git("init", "-q"); err != nil {
		return err
	}
	ignorePath := filepath.Join(r.dir, ".gitignore")
	if _, err := os.Stat(ignorePath); errors.Is(err, os.ErrNotExist) {
		data := strings.Join(ignored, "\n") + "\n"
		if err := os.WriteFile(ignorePath, []byte(data), 0o644); err != nil {
			return fmt.Errorf("writing .gitignore: %w", err)
		}
	}
	return nil
}

// Dirty reports whether the working tree has uncommitted changes.
func (r *Repo) Dirty() (bool, error) {
	out, err := r.git("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

// Commit stages everything and commits it. It returns the short hash,
// or "" when there was nothing to commit.
func (r *Repo) Commit(message string) (string, error) {
	dirty, err := r.Dirty()
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", nil
	}

	if _, err := r.git("add", "-A"); err != nil {
		return "", err
	}
	author := fmt.Sprintf("%s <%s>", AuthorName, AuthorEmail)
	if _, err := r.git("commit", "-q", "-m", message, "--author", author); err != nil {
		return "", err
	}

	out, err := r.git("rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (r *Repo) git(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	// The committer must be set even where no global git identity exists.
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+AuthorName,
		"GIT_COMMITTER_EMAIL="+AuthorEmail,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("git %s: %s: %w", args[0], bytes.TrimSpace(out), err)
	}
	return out, nil
}

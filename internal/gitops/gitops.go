// Package gitops commits ledger snapshots to the project's git repository.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author is the identity recorded on snapshot commits.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "init", "--quiet")
	return err
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// HasChanges reports whether the working tree under paths differs from HEAD,
// including untracked files.
func HasChanges(ctx context.Context, dir string, paths ...string) (bool, error) {
	out, err := git(ctx, dir, append([]string{"status", "--porcelain", "--"}, paths...)...)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Commit stages paths and commits them. It returns the short hash of the new
// commit, or "" when nothing under paths changed.
func Commit(ctx context.Context, dir, message string, author Author, paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	changed, err := HasChanges(ctx, dir, paths...)
	if err != nil {
		return "", err
	}
	if !changed {
		return "", nil
	}

	if _, err := git(ctx, dir, append([]string{"add", "--"}, paths...)...); err != nil {
		return "", err
	}
	// Committer identity may be unset on the host; the author doubles as committer.
	if _, err := git(ctx, dir,
		"-c", "user.name="+author.Name, "-c", "user.email="+author.Email,
		"commit", "--quiet", "-m", message, "--author", author.String()); err != nil {
		return "", err
	}
	return git(ctx, dir, "rev-parse", "--short", "HEAD")
}

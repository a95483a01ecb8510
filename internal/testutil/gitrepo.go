// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a git repository in a temporary directory, driven through go-git so
// tests do not need a git binary.
type Repo struct {
	// Dir is the worktree root.
	Dir string

	t       testing.TB
	repo    *git.Repository
	commits int
}

// commitEpoch is the author time of the first commit; each later commit is
// one minute younger so committer-time ordering is deterministic.
var commitEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// NewRepo initializes an empty repository under t.TempDir().
func NewRepo(t testing.TB) *Repo {
	t.Helper()
	dir := t.TempDir()
	// Resolve symlinked temp dirs (macOS /var) so paths match the worktree root.
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	return &Repo{Dir: dir, t: t, repo: repo}
}

// Commit writes files (slash-separated paths relative to Dir), stages them
// and commits. It returns the commit hash in hex.
func (r *Repo) Commit(message string, files map[string]string) string {
	r.t.Helper()
	return r.commit(message, files, nil)
}

// Merge records a merge of branch into the current branch, like
// `git merge --no-ff`. files holds the merged content of every path that
// differs from the current branch; the other paths keep their content.
func (r *Repo) Merge(message, branch string, files map[string]string) string {
	r.t.Helper()
	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("failed to resolve HEAD: %v", err)
	}
	other, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		r.t.Fatalf("failed to resolve branch %s: %v", branch, err)
	}
	return r.commit(message, files, []plumbing.Hash{head.Hash(), other.Hash()})
}

// Branch creates a branch at HEAD and checks it out.
func (r *Repo) Branch(name string) {
	r.t.Helper()
	r.checkout(name, true)
}

// Checkout switches the worktree to an existing branch.
func (r *Repo) Checkout(name string) {
	r.t.Helper()
	r.checkout(name, false)
}

// CurrentBranch returns the short name of the checked out branch.
func (r *Repo) CurrentBranch() string {
	r.t.Helper()
	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("failed to resolve HEAD: %v", err)
	}
	return head.Name().Short()
}

func (r *Repo) checkout(name string, create bool) {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("failed to open worktree: %v", err)
	}
	opts := &git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name), Create: create}
	if err := wt.Checkout(opts); err != nil {
		r.t.Fatalf("failed to check out %s: %v", name, err)
	}
}

func (r *Repo) commit(message string, files map[string]string, parents []plumbing.Hash) string {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("failed to open worktree: %v", err)
	}
	for name, content := range files {
		MustWriteFile(r.t, filepath.Join(r.Dir, filepath.FromSlash(name)), content)
		if _, err := wt.Add(name); err != nil {
			r.t.Fatalf("failed to stage %s: %v", name, err)
		}
	}

	when := commitEpoch.Add(time.Duration(r.commits) * time.Minute)
	r.commits++
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	if err != nil {
		r.t.Fatalf("failed to commit: %v", err)
	}
	return hash.String()
}

// Remove deletes a file from the worktree and stages the removal.
func (r *Repo) Remove(name string) {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("failed to open worktree: %v", err)
	}
	if err := os.Remove(filepath.Join(r.Dir, filepath.FromSlash(name))); err != nil {
		r.t.Fatalf("failed to remove %s: %v", name, err)
	}
	if _, err := wt.Remove(name); err != nil {
		r.t.Fatalf("failed to stage removal of %s: %v", name, err)
	}
}

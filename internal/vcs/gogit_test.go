// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/avocado-build/avocado/internal/testutil"
)

func TestGoGitProvider_LastCommitTouchingDirectory(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	first := repo.Commit("add libs", map[string]string{
		"lib/a/main.go": "package a\n",
		"lib/b/main.go": "package b\n",
	})
	second := repo.Commit("touch a", map[string]string{"lib/a/main.go": "package a // v2\n"})
	third := repo.Commit("add lib/ab", map[string]string{"lib/ab/x.txt": "x\n"})

	p := NewGoGitProvider()
	tests := []struct {
		path string
		want string
	}{
		{path: "lib/a", want: second},
		{path: "lib/b", want: first},
		// lib/ab shares a prefix with lib/a but is a different directory.
		{path: "lib/ab", want: third},
		{path: "lib", want: third},
		{path: ".", want: third},
		{path: "lib/b/", want: first},
	}
	for _, tt := range tests {
		got, err := p.ContentID(context.Background(), repo.Dir, tt.path)
		if err != nil {
			t.Fatalf("ContentID(%q) error: %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("ContentID(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestGoGitProvider_NotFound(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	p := NewGoGitProvider()

	// No commits yet: HEAD does not resolve.
	if _, err := p.ContentID(context.Background(), repo.Dir, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ContentID() on empty repo error = %v, want ErrNotFound", err)
	}

	repo.Commit("init", map[string]string{"a/file": "1"})
	_, err := p.ContentID(context.Background(), repo.Dir, "untracked")
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nfErr.Path != "untracked" {
		t.Errorf("Path = %q, want untracked", nfErr.Path)
	}
}

func TestGoGitProvider_RootInSubdirectory(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	want := repo.Commit("one", map[string]string{"mono/svc/a.txt": "a", "other/svc/a.txt": "b"})
	repo.Commit("two", map[string]string{"other/svc/a.txt": "c"})

	got, err := NewGoGitProvider().ContentID(context.Background(), filepath.Join(repo.Dir, "mono"), "svc")
	if err != nil {
		t.Fatalf("ContentID() error: %v", err)
	}
	if got != want {
		t.Errorf("ContentID() = %s, want %s", got, want)
	}
}

func TestGoGitProvider_NotARepository(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, err := NewGoGitProvider().ContentID(context.Background(), root, "a")
	if !errors.Is(err, ErrNotRepository) {
		t.Fatalf("ContentID() outside a repository error = %v, want ErrNotRepository", err)
	}
	var nrErr *NotRepositoryError
	if !errors.As(err, &nrErr) || nrErr.Root != root {
		t.Errorf("expected NotRepositoryError for %s, got %v", root, err)
	}
}

// mergedRepo builds
//
//	c0 (a/x, b/y) - c2 (b/y) - merge
//	   \- c1 (a/x) ---------/
//
// with the merge recorded on the main line.
func mergedRepo(t *testing.T) (repo *testutil.Repo, c0, c1, c2, merge string) {
	t.Helper()

	repo = testutil.NewRepo(t)
	c0 = repo.Commit("init", map[string]string{"a/x": "1", "b/y": "1", "c/z": "1"})
	trunk := repo.CurrentBranch()
	repo.Branch("feature")
	c1 = repo.Commit("change a", map[string]string{"a/x": "2"})
	repo.Checkout(trunk)
	c2 = repo.Commit("change b", map[string]string{"b/y": "2"})
	merge = repo.Merge("merge feature", "feature", map[string]string{"a/x": "2"})
	return repo, c0, c1, c2, merge
}

func TestGoGitProvider_MergeFollowsTreesameParent(t *testing.T) {
	t.Parallel()

	repo, c0, c1, c2, merge := mergedRepo(t)
	p := NewGoGitProvider()
	tests := []struct {
		path string
		want string
	}{
		{path: "a", want: c1},
		{path: "b", want: c2},
		{path: "c", want: c0},
		// The merge tree differs from both parents.
		{path: ".", want: merge},
	}
	for _, tt := range tests {
		got, err := p.ContentID(context.Background(), repo.Dir, tt.path)
		if err != nil {
			t.Fatalf("ContentID(%q) error: %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("ContentID(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestGoGitProvider_DeletionCommit(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.Commit("init", map[string]string{"a/x": "1", "b/y": "1"})
	repo.Remove("a/x")
	removed := repo.Commit("drop a", nil)
	repo.Commit("change b", map[string]string{"b/y": "2"})

	got, err := NewGoGitProvider().ContentID(context.Background(), repo.Dir, "a")
	if err != nil {
		t.Fatalf("ContentID() error: %v", err)
	}
	if got != removed {
		t.Errorf("ContentID() = %s, want the deleting commit %s", got, removed)
	}
}

func TestGoGitProvider_ConcurrentLookups(t *testing.T) {
	t.Parallel()

	repo, _, c1, c2, _ := mergedRepo(t)
	p := NewGoGitProvider()

	first, err := p.acquire(repo.Dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.acquire(repo.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("acquire() handed out the same handle twice")
	}
	p.release(repo.Dir, first)
	p.release(repo.Dir, second)
	if n := len(p.idle[repo.Dir]); n != 2 {
		t.Fatalf("idle handles = %d, want 2", n)
	}

	var g errgroup.Group
	for i := range 16 {
		path, want := "a", c1
		if i%2 == 1 {
			path, want = "b", c2
		}
		g.Go(func() error {
			got, err := p.ContentID(context.Background(), repo.Dir, path)
			if err != nil {
				return err
			}
			if got != want {
				return fmt.Errorf("ContentID(%q) = %s, want %s", path, got, want)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Error(err)
	}
}

func TestExecProvider_MatchesGoGit(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	repo := testutil.NewRepo(t)
	repo.Commit("one", map[string]string{"a/x": "1", "b/y": "2"})
	repo.Commit("two", map[string]string{"b/y": "3"})

	goGit := NewGoGitProvider()
	execP := &ExecProvider{}
	for _, path := range []string{"a", "b"} {
		want, err := goGit.ContentID(context.Background(), repo.Dir, path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := execP.ContentID(context.Background(), repo.Dir, path)
		if err != nil {
			t.Fatalf("ExecProvider.ContentID(%q) error: %v", path, err)
		}
		if got != want {
			t.Errorf("ExecProvider.ContentID(%q) = %s, want %s", path, got, want)
		}
	}

	if _, err := execP.ContentID(context.Background(), repo.Dir, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ExecProvider.ContentID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestExecProvider_MatchesGoGitAcrossMerge(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	repo, _, _, _, _ := mergedRepo(t)
	goGit := NewGoGitProvider()
	execP := &ExecProvider{}
	for _, path := range []string{"a", "b", "c", "."} {
		want, err := execP.ContentID(context.Background(), repo.Dir, path)
		if err != nil {
			t.Fatalf("ExecProvider.ContentID(%q) error: %v", path, err)
		}
		got, err := goGit.ContentID(context.Background(), repo.Dir, path)
		if err != nil {
			t.Fatalf("GoGitProvider.ContentID(%q) error: %v", path, err)
		}
		if got != want {
			t.Errorf("GoGitProvider.ContentID(%q) = %s, git log says %s", path, got, want)
		}
	}
}

func TestBackend(t *testing.T) {
	t.Parallel()

	for _, b := range []Backend{"", BackendGoGit, BackendGit} {
		if ok, errs := b.IsValid(); !ok {
			t.Errorf("Backend(%q).IsValid() = false, %v", b, errs)
		}
		if _, err := New(b); err != nil {
			t.Errorf("New(%q) error: %v", b, err)
		}
	}

	if ok, _ := Backend("svn").IsValid(); ok {
		t.Error("Backend(svn).IsValid() = true")
	}
	if _, err := New("svn"); !errors.Is(err, ErrInvalidBackend) {
		t.Errorf("New(svn) error = %v, want ErrInvalidBackend", err)
	}
}

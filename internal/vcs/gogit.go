// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type (
	// GoGitProvider reads commit history with go-git.
	//
	// A go-git repository handle is not safe for concurrent use, so each
	// lookup checks out a handle of its own. Handles are returned to a
	// per-root idle list afterwards, and concurrent lookups open as many
	// handles as there are lookups in flight.
	GoGitProvider struct {
		mu   sync.Mutex
		idle map[string][]*openRepo
	}

	openRepo struct {
		repo *git.Repository
		// prefix is the registry root relative to the worktree root, slash
		// separated, or "" when they are the same directory.
		prefix string
	}

	// treeEntry is the state of one path in one commit.
	treeEntry struct {
		hash   plumbing.Hash
		exists bool
	}
)

// NewGoGitProvider creates a GoGitProvider.
func NewGoGitProvider() *GoGitProvider {
	return &GoGitProvider{idle: make(map[string][]*openRepo)}
}

// ContentID implements Provider.
//
// The result matches `git log -1 -- path` under git's default history
// simplification: starting at HEAD, a commit whose path entry equals that of
// one of its parents is skipped in favor of the first such parent. The first
// commit that differs from every parent is the answer. A root commit differs
// when it contains the path.
func (p *GoGitProvider) ContentID(ctx context.Context, root, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r, err := p.acquire(root)
	if err != nil {
		return "", err
	}
	defer p.release(root, r)

	rel := joinSlash(r.prefix, filepath.ToSlash(filepath.Clean(path)))

	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", &NotFoundError{Root: root, Path: path}
		}
		return "", fmt.Errorf("read history of %s: %w", root, err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("read history of %s: %w", root, err)
	}
	entry, err := lookupEntry(commit, rel)
	if err != nil {
		return "", fmt.Errorf("read tree of %s: %w", commit.Hash, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		next, nextEntry, err := treesameParent(r.repo, commit, rel, entry)
		if err != nil {
			return "", fmt.Errorf("read history of %s: %w", root, err)
		}
		if next == nil {
			// Without the path and without parents there is nothing that
			// removed it either.
			if !entry.exists && !anyParentLoaded(r.repo, commit) {
				return "", &NotFoundError{Root: root, Path: path}
			}
			return commit.Hash.String(), nil
		}
		commit, entry = next, nextEntry
	}
}

// treesameParent returns the first parent of c whose entry for rel equals
// entry, or nil when c changed rel relative to every parent. Parents missing
// from a shallow clone are skipped.
func treesameParent(repo *git.Repository, c *object.Commit, rel string, entry treeEntry) (*object.Commit, treeEntry, error) {
	for _, h := range c.ParentHashes {
		parent, err := repo.CommitObject(h)
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return nil, treeEntry{}, err
		}
		pe, err := lookupEntry(parent, rel)
		if err != nil {
			return nil, treeEntry{}, fmt.Errorf("read tree of %s: %w", parent.Hash, err)
		}
		if pe == entry {
			return parent, pe, nil
		}
	}
	return nil, treeEntry{}, nil
}

// anyParentLoaded reports whether at least one parent of c is present in the
// object store. A commit whose parents were all cut off by a shallow clone
// behaves like a root commit.
func anyParentLoaded(repo *git.Repository, c *object.Commit) bool {
	for _, h := range c.ParentHashes {
		if _, err := repo.CommitObject(h); err == nil {
			return true
		}
	}
	return false
}

// lookupEntry returns the tree entry of rel in c. The empty path is the root
// tree.
func lookupEntry(c *object.Commit, rel string) (treeEntry, error) {
	tree, err := c.Tree()
	if err != nil {
		return treeEntry{}, err
	}
	if rel == "" {
		return treeEntry{hash: tree.Hash, exists: true}, nil
	}
	e, err := tree.FindEntry(rel)
	switch {
	case err == nil:
		return treeEntry{hash: e.Hash, exists: true}, nil
	case errors.Is(err, object.ErrEntryNotFound),
		errors.Is(err, object.ErrDirectoryNotFound),
		errors.Is(err, object.ErrFileNotFound),
		// A leading path component names a blob.
		errors.Is(err, plumbing.ErrObjectNotFound):
		return treeEntry{}, nil
	default:
		return treeEntry{}, err
	}
}

// acquire takes an idle handle for root or opens a new one.
func (p *GoGitProvider) acquire(root string) (*openRepo, error) {
	p.mu.Lock()
	if list := p.idle[root]; len(list) > 0 {
		r := list[len(list)-1]
		p.idle[root] = list[:len(list)-1]
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	return openRepository(root)
}

func (p *GoGitProvider) release(root string, r *openRepo) {
	p.mu.Lock()
	p.idle[root] = append(p.idle[root], r)
	p.mu.Unlock()
}

func openRepository(root string) (*openRepo, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, &NotRepositoryError{Root: root, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", root, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree at %s: %w", root, err)
	}
	prefix, err := relativeTo(wt.Filesystem.Root(), root)
	if err != nil {
		return nil, err
	}
	return &openRepo{repo: repo, prefix: prefix}, nil
}

// relativeTo returns dir relative to base as a slash path, "" for base itself.
func relativeTo(base, dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(absDir); err == nil {
		absDir = resolved
	}
	if resolved, err := filepath.EvalSymlinks(base); err == nil {
		base = resolved
	}
	rel, err := filepath.Rel(base, absDir)
	if err != nil {
		return "", fmt.Errorf("registry root %s is outside the worktree %s: %w", dir, base, err)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

func joinSlash(prefix, path string) string {
	if path == "." {
		path = ""
	}
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	}
	return prefix + "/" + path
}

// SPDX-License-Identifier: MPL-2.0

package treehash

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/avocado-build/avocado/internal/dag"
)

const (
	// SHA1IDWidth is the content identifier width of SHA-1 repositories.
	SHA1IDWidth = 20
	// SHA256IDWidth is the content identifier width of SHA-256 repositories.
	SHA256IDWidth = 32
)

type (
	// ContentSource returns the hex content identifier of a node.
	ContentSource interface {
		ContentID(ctx context.Context, id string) (string, error)
	}

	// ContentSourceFunc adapts a function to ContentSource.
	ContentSourceFunc func(ctx context.Context, id string) (string, error)

	// Result is handed to the visit callback once a node is hashed.
	Result struct {
		ID        string
		ContentID string
		Record
	}

	// Hasher computes tree hashes over a graph.
	Hasher struct {
		source  ContentSource
		idWidth int
		jobs    int
		logger  *slog.Logger
	}

	// Option configures a Hasher.
	Option func(*Hasher)
)

// ContentID implements ContentSource.
func (f ContentSourceFunc) ContentID(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

// WithIDWidth sets the decoded content identifier width in bytes.
// The default is SHA1IDWidth.
func WithIDWidth(width int) Option {
	return func(h *Hasher) { h.idWidth = width }
}

// WithJobs sets how many content identifiers may be looked up concurrently.
// Values below 2 look them up one at a time, in order.
func WithJobs(jobs int) Option {
	return func(h *Hasher) { h.jobs = jobs }
}

// WithLogger sets the logger used for per-node debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hasher) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHasher creates a Hasher that reads content identifiers from source.
func NewHasher(source ContentSource, opts ...Option) *Hasher {
	h := &Hasher{
		source:  source,
		idWidth: SHA1IDWidth,
		jobs:    1,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash hashes every node of g in dependency-first order and calls visit for
// each one right after its record is computed, before the next node is
// hashed. The first error from sorting, lookup, decoding, or visit stops the
// run and is returned.
func (h *Hasher) Hash(ctx context.Context, g *dag.Graph, visit func(Result) error) (Records, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	lookup := h.lookupInOrder
	if h.jobs > 1 && len(order) > 1 {
		ids, err := h.prefetch(ctx, order)
		if err != nil {
			return nil, err
		}
		lookup = func(_ context.Context, i int, _ string) (string, error) { return ids[i], nil }
	}

	records := make(Records, len(order))
	for i, id := range order {
		contentID, err := lookup(ctx, i, id)
		if err != nil {
			return nil, err
		}
		rec, err := h.hashOne(id, contentID, g.Dependencies(id), records)
		if err != nil {
			return nil, err
		}
		records[id] = rec
		if visit != nil {
			if err := visit(Result{ID: id, ContentID: contentID, Record: rec}); err != nil {
				return nil, err
			}
		}
	}
	return records, nil
}

func (h *Hasher) lookupInOrder(ctx context.Context, _ int, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	contentID, err := h.source.ContentID(ctx, id)
	if err != nil {
		return "", &ContentLookupError{ID: id, Err: err}
	}
	return contentID, nil
}

// prefetch looks up every content identifier with at most h.jobs lookups in
// flight. A failed lookup does not stop the others, so the error returned is
// always the one of the earliest node in order.
func (h *Hasher) prefetch(ctx context.Context, order []string) ([]string, error) {
	ids := make([]string, len(order))
	errs := make([]error, len(order))

	var g errgroup.Group
	g.SetLimit(h.jobs)
	for i, id := range order {
		g.Go(func() error {
			ids[i], errs[i] = h.lookupInOrder(ctx, i, id)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // failures are collected per node

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (h *Hasher) hashOne(id, contentID string, deps []string, records Records) (Record, error) {
	raw, err := hex.DecodeString(contentID)
	if err != nil {
		return Record{}, &DecodeError{ID: id, ContentID: contentID, Width: h.idWidth, Err: err}
	}
	if len(raw) != h.idWidth {
		return Record{}, &DecodeError{ID: id, ContentID: contentID, Width: h.idWidth}
	}

	rec, err := HashNode(raw, deps, records)
	if err != nil {
		var overflow *DepthOverflowError
		if errors.As(err, &overflow) {
			overflow.ID = id
		}
		return Record{}, err
	}

	if h.logger.Enabled(context.Background(), slog.LevelDebug) {
		for i, dep := range deps {
			h.logger.Debug("child record",
				"component", id,
				"child", dep,
				"offset", i,
				"depth", records[dep].Depth,
				"digest", records[dep].Digest.String(),
				"last", i == len(deps)-1)
		}
	}
	h.logger.Debug("root record",
		"component", id,
		"depth", rec.Depth,
		"commit", contentID,
		"children", len(deps),
		"tree", rec.Digest.String())
	return rec, nil
}

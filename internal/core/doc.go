// SPDX-License-Identifier: MPL-2.0

// Package core chains the graph engine over component records: sorting,
// tree hashing with optional property annotation, and the dependency and
// dependent closure queries. Every operation takes and returns
// []*component.Component so callers can compose them.
//
// Operations are all-or-nothing: on error they return no components, and the
// components passed in are never modified.
package core

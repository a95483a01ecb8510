// SPDX-License-Identifier: MPL-2.0

// Package component provides the component record and the registry file codec.
//
// A registry is a JSON array of component records stored in components.json at
// the repository root. Each record has a unique "dir" (the component id, also its
// path relative to the root), an optional "dependencies" list, output fields
// written by the hasher, and any number of unrecognized fields. Unrecognized
// fields are kept in an ordered bag so a read-modify-write cycle emits them
// unchanged and in their original order.
//
// The raw registry is validated against an embedded CUE schema before it is
// decoded, so malformed input is reported with the path of the offending value.
package component

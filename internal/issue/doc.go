// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The catalog holds Markdown guidance for the failures users
// hit most (cycles, missing components, history lookups), rendered with glamour.
package issue

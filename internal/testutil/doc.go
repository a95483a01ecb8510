// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers cover file fixtures (MustWriteFile, MustMkdirAll), registry
// fixtures (WriteRegistry) and throw-away git repositories (NewRepo).
package testutil

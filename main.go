// SPDX-License-Identifier: MPL-2.0

// Command avocado orders monorepo components by their dependencies and
// computes content hashes that cover each component's dependency closure.
package main

import cmd "github.com/avocado-build/avocado/cmd/avocado"

func main() {
	cmd.Execute()
}

// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command storefront drives the storefront state layer from a terminal.
//
// Every invocation rehydrates the persisted stores, runs one command against
// the marketplace API and writes the updated snapshot back before exiting.
package main

import (
	"os"

	"github.com/taibuivan/bahari/cmd/storefront/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

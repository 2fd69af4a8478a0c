// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued URL query parameters.
package query

import (
	"slices"
	"strings"
)

// StringSlice splits a comma-separated query value into trimmed, non-empty,
// de-duplicated entries in first-seen order.
//
// # Example
//
//	StringSlice("fish, shellfish,,fish") // []string{"fish", "shellfish"}
func StringSlice(value string) []string {
	var entries []string
	for _, part := range strings.Split(value, ",") {
		clean := strings.TrimSpace(part)
		if clean != "" && !slices.Contains(entries, clean) {
			entries = append(entries, clean)
		}
	}
	return entries
}

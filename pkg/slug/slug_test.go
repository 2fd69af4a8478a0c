// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bahari/pkg/slug"
)

/*
TestFrom checks folding of accents, case and punctuation.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Fresh Tilapia", "fresh-tilapia"},
		{"  Crème  Brûlée!! ", "creme-brulee"},
		{"Kingfish (2 cm) steaks", "kingfish-2-cm-steaks"},
		{"---", ""},
		{"海鲜 prawns", "prawns"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}

/*
TestMatches checks substring matching on folded keys.
*/
func TestMatches(t *testing.T) {
	assert.True(t, slug.Matches("Tiger Prawns", "prawn"))
	assert.True(t, slug.Matches("Tiger Prawns", "TIGER  prawns"))
	assert.True(t, slug.Matches("Pwézá", "pweza"))
	assert.True(t, slug.Matches("Octopus", ""))
	assert.False(t, slug.Matches("Octopus", "squid"))
}

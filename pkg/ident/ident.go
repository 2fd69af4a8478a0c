// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ident mints identifiers for sandbox records and request correlation.

Record IDs carry a short kind prefix ahead of a UUIDv7 body, so "ord_0192..."
is recognisable in logs and still sorts by creation time.
*/
package ident

import "github.com/google/uuid"

// Kind is the prefix of a record identifier.
type Kind string

const (
	User    Kind = "usr"
	Product Kind = "prd"
	Address Kind = "adr"
	Order   Kind = "ord"
)

const separator = "_"

// New returns a fresh identifier for a record of the given kind.
func New(kind Kind) string {
	return string(kind) + separator + body()
}

// Request returns a bare UUIDv7 for the X-Request-ID header.
func Request() string {
	return body()
}

func body() string {
	id, err := uuid.NewV7()
	if err != nil {
		// The clock source failed; a random v4 still satisfies uniqueness.
		return uuid.NewString()
	}
	return id.String()
}

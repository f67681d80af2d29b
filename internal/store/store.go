// Package store persists articles keyed by slug.
package store

import "errors"

var (
	ErrNotFound = errors.New("article not found")
	ErrExists   = errors.New("article already exists")
)

// Package store holds the backend-neutral repository sentinels shared by the gorm and mongo repositories.
package store

import "errors"

// ErrNotFound is returned by every repository when the addressed record does not exist.
var ErrNotFound = errors.New("store: record not found")

// ErrDuplicate is returned when a write would break a uniqueness rule.
var ErrDuplicate = errors.New("store: duplicate record")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

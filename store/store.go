package store

import "errors"

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("not found")

type Store[T any] interface {
	Put(key string, value T) error
	Get(key string) (T, error)
	List() ([]T, error)
	Count() (int, error)
}

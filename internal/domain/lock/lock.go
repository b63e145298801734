package lock

import (
	"context"
	"errors"
)

var ErrNotObtained = errors.New("lock held by another request")

// Release frees a lock obtained through Locker.
type Release func(ctx context.Context) error

// Locker serialises mutations on one key across service instances.
type Locker interface {
	Obtain(ctx context.Context, key string) (Release, error)
}

package interfaces

import "context"

// UserLocker serialises the read-decide-append sequence for a single user.
// WithUserLock runs fn while the lock for userID is held. Store calls made inside
// fn must use the ctx passed to fn so they join the locked unit of work.
type UserLocker interface {
	WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context) error) error
}

// internal/util/clock.go
// Sumber waktu untuk ledger/worker; bisa diganti FixedClock di test

package util

import "time"

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock selalu mengembalikan T.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

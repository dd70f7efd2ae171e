package httpserver

import "time"

// Clock supplies the current time for registry invocations. Tests substitute
// a fixed clock so window checks are deterministic.
type Clock interface {
	Now() uint64
}

// SystemClock reads the wall clock in unix seconds.
type SystemClock struct{}

// Now returns the current unix time.
func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

package clock

import "time"

// Clock supplies the current instant. Expiry checks compare against an
// injected Clock so tests can freeze or advance time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns the wall clock.
func Real() Clock { return realClock{} }

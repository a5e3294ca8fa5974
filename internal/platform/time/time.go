// Package time holds the injectable clock
package time

import "time"

// Clock yields the current time; swap it in tests
type Clock func() time.Time

// System is the wall clock in UTC
func System() time.Time { return time.Now().UTC() }

// Or returns c, or System when c is nil
func (c Clock) Or() Clock {
	if c == nil {
		return System
	}
	return c
}

package utils

import (
	"fmt"
	"time"
)

// Retry runs fn up to attempts times, sleeping between tries. Returns nil on
// the first success, or a terminal error naming the operation.
func Retry(name string, attempts int, sleep time.Duration, fn func() error) error {
	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return fmt.Errorf("%s: retry time over", name)
}

// Min returns the smaller of two ints.
func Min(x, y int) int {
	if x > y {
		return y
	}
	return x
}

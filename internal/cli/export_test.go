package cli

import "time"

// SetLockWait shortens the store lock wait and returns a restore func.
func SetLockWait(d time.Duration) func() {
	prev := lockWait
	lockWait = d
	return func() { lockWait = prev }
}

package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"ltask/internal/config"
)

// ErrStoreBusy is returned when another ltask process holds the store.
var ErrStoreBusy = errors.New("store is in use by another ltask process")

var (
	// lockWait bounds how long a one-shot command waits for the store.
	lockWait  = 2 * time.Second
	lockRetry = 50 * time.Millisecond
)

// lockStore takes the exclusive session lock beside the store for the whole
// command, since the manager loads once and rewrites every key on each change.
// Interactive sessions fail at once when the lock is held; one-shot commands
// wait up to lockWait for the holder to finish.
func lockStore(ctx context.Context, cfg *config.Config, interactive bool) (*flock.Flock, error) {
	path := cfg.StorePath() + ".lock"
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "create lock directory")
	}

	fl := flock.New(path)
	var locked bool
	var err error
	if interactive {
		locked, err = fl.TryLock()
	} else {
		lctx, cancel := context.WithTimeout(ctx, lockWait)
		defer cancel()
		locked, err = fl.TryLockContext(lctx, lockRetry)
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = nil
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "lock store")
	}
	if !locked {
		return nil, ErrStoreBusy
	}
	return fl, nil
}

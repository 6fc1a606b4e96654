package lib

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/nightlyone/lockfile"
)

func (r *Runner) lockPath(target string) string {
	sum := sha1.Sum([]byte(target))
	return filepath.Join(r.cfg.LockDir, hex.EncodeToString(sum[:8])+".lock")
}

// lock takes the advisory lock for target, retrying for up to LockWait.
func (r *Runner) lock(target string) (func(), error) {
	f := r.lockPath(target)
	if err := os.MkdirAll(filepath.Dir(f), 0755); err != nil {
		return nil, err
	}
	lf, err := lockfile.New(f)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(r.cfg.LockWait)
	for {
		err = lf.TryLock()
		if err == nil {
			break
		}
		if _, ok := err.(interface{ Temporary() bool }); !ok {
			return nil, err
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrBusy, target, f)
		}
		log.Debugf("lockfile locked %s", f)
		time.Sleep(time.Duration(rand.Intn(250)) * time.Millisecond)
	}
	return func() {
		if err := lf.Unlock(); err != nil {
			log.Warnf("lockfile error: %s", err.Error())
		}
	}, nil
}

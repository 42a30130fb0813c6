//go:build unix

package vdev

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// fileLock is a flock-held lock file whose contents name the owner PID.
type fileLock struct {
	f *os.File
}

func lockPath(dir string, id int) string {
	return filepath.Join(dir, fmt.Sprintf("vjoy-%d.lock", id))
}

// takeLock acquires the per-device lock file, writing our PID into it.
// A held lock turns into *BusyError with the PID read from the file.
func takeLock(dir string, id int) (*fileLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	f, err := os.OpenFile(lockPath(dir, id), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		pid := readLockPID(f)
		_ = f.Close()
		return nil, &BusyError{ID: id, OwnerPID: pid}
	}
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0)
		_ = f.Sync()
	}
	return &fileLock{f: f}, nil
}

// probeLock checks whether the lock file is held without taking it.
func probeLock(dir string, id int) (pid int, held bool) {
	f, err := os.OpenFile(lockPath(dir, id), os.O_RDWR, 0o644)
	if err != nil {
		return 0, false
	}
	defer f.Close()
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return readLockPID(f), true
	}
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return 0, false
}

func readLockPID(f *os.File) int {
	buf := make([]byte, 32)
	n, err := f.ReadAt(buf, 0)
	if n == 0 && err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(buf[:n])))
	if err != nil {
		return 0
	}
	return pid
}

func (l *fileLock) release() error {
	path := l.f.Name()
	_ = unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	err := l.f.Close()
	_ = os.Remove(path)
	return err
}

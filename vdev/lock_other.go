//go:build !unix

package vdev

// Without flock support, exclusivity is in-process only. The registry
// mutex already covers that, so locks degrade to no-ops.

type fileLock struct{}

func takeLock(dir string, id int) (*fileLock, error) { return &fileLock{}, nil }

func probeLock(dir string, id int) (pid int, held bool) { return 0, false }

func (l *fileLock) release() error { return nil }

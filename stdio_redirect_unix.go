//go:build unix

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// redirectStdIO points stderr, and stdout unless keepStdout is set, at
// the log file so panics from any goroutine end up there.
func redirectStdIO(path string, keepStdout bool) error {
	if path == "" {
		return nil
	}
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_APPEND|unix.O_WRONLY|unix.O_CLOEXEC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	targets := []*os.File{os.Stderr}
	if !keepStdout {
		targets = append(targets, os.Stdout)
	}
	for _, f := range targets {
		if err := unix.Dup2(fd, int(f.Fd())); err != nil {
			return fmt.Errorf("redirect %s: %w", f.Name(), err)
		}
	}
	return nil
}

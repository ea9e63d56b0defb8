//go:build !unix

package main

import "os"

// Runtime panics still go to the process stderr here; only writes
// through os.Stdout and os.Stderr are captured.
func redirectStdIO(path string, keepStdout bool) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if !keepStdout {
		os.Stdout = f
	}
	os.Stderr = f
	return nil
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "fmt"

// ExitError signals a non-zero exit code without printing an extra
// error message from run's caller — the command is expected to have
// already written its own output to stderr.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. main checks for this interface on
// the error run returns to distinguish "a requested resource was not
// found" (already reported, exit 2) from an unexpected error still
// needing a generic "error:" line (exit 1).
func (e *ExitError) ExitCode() int {
	return e.Code
}

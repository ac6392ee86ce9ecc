//go:build windows

// errno_windows.go: Windows errno -> error-kind mapping per spec §4.1 step 4.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"errors"
	"io/fs"
	"syscall"

	agerrors "github.com/agilira/go-errors"
)

func classifyOSError(err error) (agerrors.ErrorCode, string) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ERROR_FILE_NOT_FOUND, syscall.ERROR_PATH_NOT_FOUND:
			return ErrNotFound, "ERROR_FILE_NOT_FOUND"
		case syscall.ERROR_ACCESS_DENIED:
			return ErrPermissionDenied, "ERROR_ACCESS_DENIED"
		case syscall.ERROR_DIRECTORY:
			return ErrNotDirectory, "ERROR_DIRECTORY"
		case syscall.ERROR_TOO_MANY_OPEN_FILES:
			return ErrTimeout, "ERROR_TOO_MANY_OPEN_FILES"
		}
		return ErrNotFound, errno.Error()
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound, "ERROR_FILE_NOT_FOUND"
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied, "ERROR_ACCESS_DENIED"
	}
	return ErrNotFound, "UNKNOWN"
}

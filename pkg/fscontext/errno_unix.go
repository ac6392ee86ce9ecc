//go:build !windows

// errno_unix.go: POSIX errno -> error-kind mapping per spec §4.1 step 4.
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

// classifyOSError maps a POSIX errno (or a wrapped stdlib sentinel) to the
// error taxonomy of spec.md §7, mirroring the Node-like code table in §4.1:
// ENOENT->E_NOT_FOUND, EACCES/EPERM->E_PERMISSION_DENIED, EISDIR->E_NOT_FILE,
// ENOTDIR->E_NOT_DIRECTORY, ELOOP->E_SYMLINK_NOT_ALLOWED,
// ETIMEDOUT/EMFILE/ENFILE->E_TIMEOUT.
func classifyOSError(err error) (agerrors.ErrorCode, string) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOENT:
			return ErrNotFound, "ENOENT"
		case syscall.EACCES:
			return ErrPermissionDenied, "EACCES"
		case syscall.EPERM:
			return ErrPermissionDenied, "EPERM"
		case syscall.EISDIR:
			return ErrNotFile, "EISDIR"
		case syscall.ENOTDIR:
			return ErrNotDirectory, "ENOTDIR"
		case syscall.ELOOP:
			return ErrSymlinkNotAllowed, "ELOOP"
		case syscall.ETIMEDOUT:
			return ErrTimeout, "ETIMEDOUT"
		case syscall.EMFILE:
			return ErrTimeout, "EMFILE"
		case syscall.ENFILE:
			return ErrTimeout, "ENFILE"
		}
		// Unrecognized errno: default to E_NOT_FOUND per spec §4.9's
		// toMcpError contract ("defaulting to E_NOT_FOUND when unknown").
		return ErrNotFound, errno.Error()
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound, "ENOENT"
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied, "EACCES"
	}
	return ErrNotFound, "UNKNOWN"
}

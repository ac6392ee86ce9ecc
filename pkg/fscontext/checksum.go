// checksum.go: the Checksums operation (spec §6). Grounded on the
// teacher's validation.go input-bounds-checking style, applied to the
// algorithm/encoding/maxFileSize triple.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// ChecksumAlgorithm enumerates the supported digest algorithms (spec §6).
type ChecksumAlgorithm string

const (
	ChecksumMD5    ChecksumAlgorithm = "md5"
	ChecksumSHA1   ChecksumAlgorithm = "sha1"
	ChecksumSHA256 ChecksumAlgorithm = "sha256"
	ChecksumSHA512 ChecksumAlgorithm = "sha512"
)

// ChecksumEncoding enumerates the supported output encodings (spec §6).
type ChecksumEncoding string

const (
	EncodingHex    ChecksumEncoding = "hex"
	EncodingBase64 ChecksumEncoding = "base64"
)

// MaxChecksumFileSize is the hard cap on ChecksumOptions.MaxFileSize
// (spec §6: "maxFileSize (≤1 GiB)").
const MaxChecksumFileSize = 1 << 30

// ChecksumOptions parameters a Checksum call (spec §6).
type ChecksumOptions struct {
	Algorithm   ChecksumAlgorithm
	Encoding    ChecksumEncoding
	MaxFileSize int64
	Cancel      *CancelToken
}

// Validate enforces spec §6's algorithm/encoding/size bounds.
func (o ChecksumOptions) Validate() error {
	switch o.Algorithm {
	case ChecksumMD5, ChecksumSHA1, ChecksumSHA256, ChecksumSHA512:
	default:
		return New(ErrInvalidInput, "", fmt.Sprintf("unsupported checksum algorithm: %q", o.Algorithm))
	}
	switch o.Encoding {
	case EncodingHex, EncodingBase64, "":
	default:
		return New(ErrInvalidInput, "", fmt.Sprintf("unsupported checksum encoding: %q", o.Encoding))
	}
	if o.MaxFileSize > MaxChecksumFileSize {
		return New(ErrInvalidInput, "", fmt.Sprintf("maxFileSize exceeds the hard cap of %s", humanize.IBytes(uint64(MaxChecksumFileSize))))
	}
	return nil
}

// Checksum computes the digest of resolvedPath per opts (spec §6).
func Checksum(resolvedPath string, opts ChecksumOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if err := checkCancelled(opts.Cancel); err != nil {
		return "", err
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = MaxChecksumFileSize
	}

	info, err := os.Stat(resolvedPath)
	if err != nil {
		return "", ToMcpError(resolvedPath, err)
	}
	if info.Size() > maxSize {
		return "", New(ErrInvalidInput, resolvedPath, fmt.Sprintf(
			"file is %s, exceeding maxFileSize %s", humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(maxSize))))
	}

	f, err := os.Open(resolvedPath)
	if err != nil {
		return "", ToMcpError(resolvedPath, err)
	}
	defer f.Close()

	var h hash.Hash
	switch opts.Algorithm {
	case ChecksumMD5:
		h = md5.New()
	case ChecksumSHA1:
		h = sha1.New()
	case ChecksumSHA512:
		h = sha512.New()
	default:
		h = sha256.New()
	}

	if _, err := io.Copy(h, &cancellableReader{r: f, cancel: opts.Cancel}); err != nil {
		return "", err
	}

	sum := h.Sum(nil)
	if opts.Encoding == EncodingBase64 {
		return base64.StdEncoding.EncodeToString(sum), nil
	}
	return hex.EncodeToString(sum), nil
}

// cancellableReader checks the cancel token between chunked reads so a
// large-file checksum can be aborted promptly (spec §5 "Suspension
// points").
type cancellableReader struct {
	r      io.Reader
	cancel *CancelToken
}

func (c *cancellableReader) Read(p []byte) (int, error) {
	if err := checkCancelled(c.cancel); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

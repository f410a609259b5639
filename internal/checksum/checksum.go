// Package checksum verifies file content against algorithm-tagged digests
// of the form "algorithm:hexdigest", e.g. "sha256:9f86d0...".
package checksum

import (
	"crypto/md5"  // #nosec G501 -- callers may supply md5-tagged digests
	"crypto/sha1" // #nosec G505
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// MismatchError reports that the computed digest of a file does not match
// the expected one.
type MismatchError struct {
	Path      string
	Algorithm string
	Want      string
	Got       string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: %s:%s != %s:%s", e.Path, e.Algorithm, e.Want, e.Algorithm, e.Got)
}

// Split parses an "algorithm:hexdigest" string into its parts.
func Split(tagged string) (algorithm, digest string, err error) {
	algorithm, digest, ok := strings.Cut(tagged, ":")
	if !ok || algorithm == "" || digest == "" {
		return "", "", fmt.Errorf("checksum must be in format <algorithm>:<checksum>, got %q", tagged)
	}
	return algorithm, digest, nil
}

// newHash returns the hash implementation for the given algorithm name.
func newHash(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case "md5":
		return md5.New(), nil // #nosec G401
	case "sha1":
		return sha1.New(), nil // #nosec G401
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("unsupported checksum algorithm %q", algorithm)
	}
}

// DigestFile computes the hex digest of the file's full content using the
// given algorithm.
func DigestFile(path, algorithm string) (string, error) {
	h, err := newHash(algorithm)
	if err != nil {
		return "", err
	}

	// #nosec G304
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify checks the file at path against an algorithm-tagged expected
// digest. An empty expected digest is a no-op. A mismatch is reported as a
// *MismatchError.
func Verify(path, expected string) error {
	if expected == "" {
		return nil
	}

	algorithm, want, err := Split(expected)
	if err != nil {
		return err
	}

	got, err := DigestFile(path, algorithm)
	if err != nil {
		return err
	}

	if !strings.EqualFold(want, got) {
		return &MismatchError{Path: path, Algorithm: algorithm, Want: want, Got: got}
	}
	return nil
}

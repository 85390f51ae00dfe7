package audit

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// IdentityMatch represents the result of identity verification.
type IdentityMatch int

const (
	// IdentityMatches indicates the file matches the expected identity.
	IdentityMatches IdentityMatch = iota
	// IdentityHashMismatch indicates the content hash does not match.
	IdentityHashMismatch
	// IdentitySizeMismatch indicates the file size does not match.
	IdentitySizeMismatch
	// IdentityNotFound indicates the file was not found.
	IdentityNotFound
)

func (m IdentityMatch) String() string {
	switch m {
	case IdentityMatches:
		return "match"
	case IdentityHashMismatch:
		return "content changed"
	case IdentitySizeMismatch:
		return "size changed"
	default:
		return "not found"
	}
}

// CaptureIdentity hashes the file at path and records its size and mtime.
func CaptureIdentity(path string) (*FileIdentity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	hash, err := HashFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}

	return &FileIdentity{
		ContentHash: hash,
		Size:        info.Size(),
		ModTime:     info.ModTime().UTC(),
	}, nil
}

// VerifyIdentity compares the file at path against expected. Size is
// checked first; the hash is only computed when sizes agree.
func VerifyIdentity(path string, expected FileIdentity) (IdentityMatch, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return IdentityNotFound, nil
		}
		return IdentityNotFound, fmt.Errorf("failed to stat file: %w", err)
	}

	if info.Size() != expected.Size {
		return IdentitySizeMismatch, nil
	}

	hash, err := HashFile(path)
	if err != nil {
		return IdentityNotFound, fmt.Errorf("failed to compute hash: %w", err)
	}
	if hash != expected.ContentHash {
		return IdentityHashMismatch, nil
	}

	return IdentityMatches, nil
}

// HashFile returns the BLAKE3-256 digest of the file's content as hex.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

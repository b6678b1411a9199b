package refcode

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

var (
	ErrEmptyPrefix = errors.New("reference prefix cannot be empty")
)

const (
	// SuffixLength is the length of the random suffix.
	SuffixLength = 4

	// TimeDigits is how many trailing digits of the unix timestamp are kept.
	TimeDigits = 8

	// Uppercase alphanumeric, matching the published reference format.
	charsetUpperAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generate creates a human-shareable reference code of the form
// <PREFIX>-<8-digit time fragment>-<4-char random suffix>,
// e.g. "DON-35716402-K9QZ".
func Generate(prefix string) (string, error) {
	return GenerateAt(prefix, time.Now())
}

// GenerateAt is Generate with an explicit timestamp, for deterministic tests.
// The time fragment is the trailing 8 digits of the millisecond timestamp.
func GenerateAt(prefix string, now time.Time) (string, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", ErrEmptyPrefix
	}

	ts := fmt.Sprintf("%d", now.UnixMilli())
	if len(ts) > TimeDigits {
		ts = ts[len(ts)-TimeDigits:]
	} else {
		ts = fmt.Sprintf("%0*s", TimeDigits, ts)
	}

	suffix, err := generateFromCharset(SuffixLength, charsetUpperAlphanumeric)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%s", prefix, ts, suffix), nil
}

// Token creates an opaque 32-character hex token, used for one-click
// unsubscribe links.
func Token() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func generateFromCharset(length int, charset string) (string, error) {
	result := make([]byte, length)
	max := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		result[i] = charset[n.Int64()]
	}

	return string(result), nil
}

// Package cache provides pluggable artifact caching for the generation
// pipeline.
//
// Diagram generation is deterministic for a given (goal, plan, mode, format)
// tuple, so rendered artifacts can be reused across invocations. Three
// backends are provided: a file cache for CLI usage, a Redis cache for the
// server, and a null cache that disables caching entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores opaque byte artifacts under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; absence is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Hash computes the SHA-256 hex digest of data. The full 64-character digest
// is used so keys never collide in practice.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ArtifactKey derives the cache key for a rendered artifact from everything
// that influences its bytes.
func ArtifactKey(goal, planHash, mode, format string) string {
	return hashKey("artifact", goal, planHash, mode, format)
}

func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

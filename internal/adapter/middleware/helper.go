package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idemp:cc"

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

// replayKey scopes a stored response to the route, the caller and the request id.
func replayKey(method, route, principalID, requestID string) string {
	return strings.Join([]string{keyPrefix, strings.ToLower(method), route, principalID, requestID}, ":")
}

// normalizeRequestID accepts an RFC 4122 UUID (v1-v5) or 32 hex chars and
// returns it lowercased. Ids that differ only in case name the same request.
func normalizeRequestID(raw string) (string, bool) {
	id := strings.ToLower(strings.TrimSpace(raw))
	switch len(id) {
	case 32:
		if _, err := hex.DecodeString(id); err == nil {
			return id, true
		}
	case 36:
		u, err := uuid.Parse(id)
		if err == nil && u.Variant() == uuid.RFC4122 && u.Version() >= 1 && u.Version() <= 5 {
			return id, true
		}
	}
	return "", false
}

// requestTime reads Ax-Request-At: epoch seconds, epoch milliseconds or
// RFC 3339 with a zone. Naive local timestamps are rejected.
func requestTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing Ax-Request-At")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New("Ax-Request-At must be epoch (s/ms) or RFC3339 with timezone")
}

// replayStore keeps one idempEntry per replay key.
type replayStore struct{ rdb *redis.Client }

// reserve claims key for an in-flight request. False means the key is taken.
func (s replayStore) reserve(ctx context.Context, key string, e idempEntry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func (s replayStore) load(ctx context.Context, key string) (idempEntry, error) {
	var e idempEntry
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(v, &e)
	return e, err
}

// finish replaces the reservation with the recorded response.
func (s replayStore) finish(ctx context.Context, key string, e idempEntry, ttl time.Duration) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, ttl).Err()
}

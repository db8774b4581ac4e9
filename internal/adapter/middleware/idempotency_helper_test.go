package middleware

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStore(t *testing.T) (*miniredis.Miniredis, replayStore) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, replayStore{rdb: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

var (
	ana   = strings.Repeat("a", 32)
	bruno = strings.Repeat("b", 32)
)

const sharedReqID = "3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88"

func TestReplayKey_ScopesByCallerAndRoute(t *testing.T) {
	base := replayKey("POST", "/loans", ana, sharedReqID)
	if want := "idemp:cc:post:/loans:" + ana + ":" + sharedReqID; base != want {
		t.Fatalf("replayKey = %q, want %q", base, want)
	}

	others := map[string]string{
		"other caller": replayKey("POST", "/loans", bruno, sharedReqID),
		"other route":  replayKey("POST", "/loans/:id/settle", ana, sharedReqID),
		"other method": replayKey("PATCH", "/loans", ana, sharedReqID),
	}
	for name, k := range others {
		if k == base {
			t.Fatalf("%s shares the key %q", name, k)
		}
	}
}

func TestNormalizeRequestID(t *testing.T) {
	accepted := []struct{ in, want string }{
		{sharedReqID, sharedReqID},
		{"  " + sharedReqID + " ", sharedReqID},
		{"3F9A6A1B-3D54-4FBE-8B3A-6B3E8D6B2C88", sharedReqID},
		{"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88", "3f9a6a1b3d544fbe8b3a6b3e8d6b2c88"},
		{strings.Repeat("F", 32), strings.Repeat("f", 32)},
	}
	for _, tc := range accepted {
		got, ok := normalizeRequestID(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("normalizeRequestID(%q) = %q, %v; want %q", tc.in, got, ok, tc.want)
		}
	}

	rejected := []string{
		"",
		strings.Repeat("a", 31),
		strings.Repeat("a", 33),
		strings.Repeat("z", 32),
		"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88", // version 9
		"3f9a6a1b-3d54-4fbe-cb3a-6b3e8d6b2c88", // not RFC 4122 variant
		"{3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88}",
	}
	for _, in := range rejected {
		if got, ok := normalizeRequestID(in); ok {
			t.Fatalf("normalizeRequestID(%q) accepted as %q", in, got)
		}
	}
}

func TestRequestTime(t *testing.T) {
	sec := time.Now().Unix()
	ms := time.Now().UnixMilli()
	cases := map[string]time.Time{
		strconv.FormatInt(sec, 10):  time.Unix(sec, 0).UTC(),
		strconv.FormatInt(ms, 10):   time.UnixMilli(ms).UTC(),
		"2024-01-11T07:00:00-03:00": time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC),
		"2024-01-11T10:00:00.5Z":    time.Date(2024, 1, 11, 10, 0, 0, 5e8, time.UTC),
	}
	for raw, want := range cases {
		got, err := requestTime(raw)
		if err != nil {
			t.Fatalf("requestTime(%q): %v", raw, err)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("requestTime(%q) = %v, want %v", raw, got, want)
		}
	}

	for _, raw := range []string{"", "  ", "amanhã", "2024-01-11T10:00:00", "1704967200x"} {
		if _, err := requestTime(raw); err == nil {
			t.Fatalf("requestTime(%q) should fail", raw)
		}
	}
}

func TestReplayStore_ReserveOncePerKey(t *testing.T) {
	_, store := newStore(t)
	ctx := context.Background()
	key := replayKey("POST", "/loans", ana, sharedReqID)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(`{"full_name":"Ana"}`)), RequestID: sharedReqID, CreatedAt: nowUTC()}

	ok, err := store.reserve(ctx, key, entry)
	if err != nil || !ok {
		t.Fatalf("first reserve: ok=%v err=%v", ok, err)
	}
	if ttl := store.rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > provisionalLockTTL {
		t.Fatalf("reservation ttl = %v", ttl)
	}
	if ok, err = store.reserve(ctx, key, entry); err != nil || ok {
		t.Fatalf("second reserve: ok=%v err=%v", ok, err)
	}

	got, err := store.load(ctx, key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.InProgress || got.BodySHA256 != entry.BodySHA256 {
		t.Fatalf("loaded %+v, want %+v", got, entry)
	}
}

func TestReplayStore_CallersReusingRequestIDGetSeparateEntries(t *testing.T) {
	_, store := newStore(t)
	ctx := context.Background()
	anaKey := replayKey("POST", "/loans", ana, sharedReqID)
	brunoKey := replayKey("POST", "/loans", bruno, sharedReqID)

	for _, key := range []string{anaKey, brunoKey} {
		ok, err := store.reserve(ctx, key, idempEntry{InProgress: true, RequestID: sharedReqID})
		if err != nil || !ok {
			t.Fatalf("reserve %s: ok=%v err=%v", key, ok, err)
		}
	}

	if err := store.finish(ctx, anaKey, idempEntry{Code: 201, Body: []byte(`{"id":"ana-loan"}`)}, time.Minute); err != nil {
		t.Fatalf("finish: %v", err)
	}

	anaEntry, err := store.load(ctx, anaKey)
	if err != nil || anaEntry.InProgress || string(anaEntry.Body) != `{"id":"ana-loan"}` {
		t.Fatalf("ana entry = %+v, err=%v", anaEntry, err)
	}
	brunoEntry, err := store.load(ctx, brunoKey)
	if err != nil || !brunoEntry.InProgress || len(brunoEntry.Body) != 0 {
		t.Fatalf("bruno entry leaked ana's response: %+v, err=%v", brunoEntry, err)
	}
}

func TestReplayStore_FinishSetsRetention(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()
	key := replayKey("DELETE", "/loans/:id", ana, sharedReqID)

	if err := store.finish(ctx, key, idempEntry{Code: 204}, 5*time.Second); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if ttl := store.rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > 5*time.Second {
		t.Fatalf("retention ttl = %v", ttl)
	}

	mr.FastForward(6 * time.Second)
	if _, err := store.load(ctx, key); err != redis.Nil {
		t.Fatalf("entry should expire, got err=%v", err)
	}
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewStore(client, "sas")
}

func testSession(id, accountID string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		SessionID: id,
		AccountID: accountID,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	sess := testSession("sid-1", "acc-1", time.Hour)
	if err := store.Save(ctx, sess, time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.SessionID != "sid-1" || got.AccountID != "acc-1" {
		t.Fatalf("Get = %+v, want sid-1/acc-1", got)
	}
	if got.CreatedAt != sess.CreatedAt || got.ExpiresAt != sess.ExpiresAt {
		t.Fatalf("timestamps did not survive the roundtrip: %+v", got)
	}
}

func TestStoreGetMissing(t *testing.T) {
	_, store := newTestStore(t)

	_, err := store.Get(context.Background(), "never-issued")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get = %v, want ErrNotFound", err)
	}
}

func TestStoreGetCorruptRecordDropsKey(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	mr.Set("sas:corrupt", "not a record")

	if _, err := store.Get(ctx, "corrupt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get = %v, want ErrNotFound", err)
	}
	if mr.Exists("sas:corrupt") {
		t.Fatal("corrupt record was not dropped")
	}
}

func TestStoreGetExpiredRecord(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	// Redis TTL far in the future, logical expiry in the past.
	sess := testSession("sid-1", "acc-1", -time.Minute)
	if err := store.Save(ctx, sess, time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := store.Get(ctx, "sid-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get = %v, want ErrNotFound for expired record", err)
	}

	ids, err := store.ActiveSessionIDs(ctx, "acc-1")
	if err != nil {
		t.Fatalf("ActiveSessionIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expired session still indexed: %v", ids)
	}
}

func TestStoreDeleteIdempotent(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSession("sid-1", "acc-1", time.Hour), time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "never-issued"); err != nil {
		t.Fatalf("Delete of unknown session failed: %v", err)
	}

	if _, err := store.Get(ctx, "sid-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete = %v, want ErrNotFound", err)
	}
}

func TestStoreDeleteAllForAccount(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"sid-1", "sid-2", "sid-3"} {
		if err := store.Save(ctx, testSession(id, "acc-1", time.Hour), time.Hour); err != nil {
			t.Fatalf("Save(%s) failed: %v", id, err)
		}
	}
	if err := store.Save(ctx, testSession("sid-other", "acc-2", time.Hour), time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.DeleteAllForAccount(ctx, "acc-1"); err != nil {
		t.Fatalf("DeleteAllForAccount failed: %v", err)
	}

	for _, id := range []string{"sid-1", "sid-2", "sid-3"} {
		if _, err := store.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("session %s survived bulk revocation", id)
		}
	}
	if _, err := store.Get(ctx, "sid-other"); err != nil {
		t.Fatalf("unrelated account's session was revoked: %v", err)
	}
}

func TestEncodeRejectsOversizedAccountID(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	_, err := Encode(&Session{AccountID: string(long)})
	if err == nil {
		t.Fatal("expected error for oversized account id")
	}
}

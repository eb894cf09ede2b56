package replay

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeExecer struct {
	mu     sync.Mutex
	rows   map[string]struct{}
	ddl    int
	failOn error
}

func newFakeExecer() *fakeExecer {
	return &fakeExecer{rows: make(map[string]struct{})}
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil {
		return pgconn.CommandTag{}, f.failOn
	}
	if strings.HasPrefix(sql, "CREATE TABLE") {
		f.ddl++
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	}
	key := string(args[0].([]byte))
	if _, exists := f.rows[key]; exists {
		return pgconn.NewCommandTag("INSERT 0 0"), nil
	}
	f.rows[key] = struct{}{}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestPostgresGuardTryConsume(t *testing.T) {
	db := newFakeExecer()
	g, err := NewPostgresGuard(db)
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	ctx := context.Background()

	if err := g.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if db.ddl != 1 {
		t.Fatalf("expected schema statement, got %d", db.ddl)
	}

	ok, err := g.TryConsume(ctx, "nullifier-eeeeeeeeeeee")
	if err != nil || !ok {
		t.Fatalf("first consume: ok=%v err=%v", ok, err)
	}
	ok, err = g.TryConsume(ctx, "nullifier-eeeeeeeeeeee")
	if err != nil || ok {
		t.Fatalf("replay should be rejected: ok=%v err=%v", ok, err)
	}
	if len(db.rows) != 1 {
		t.Fatalf("expected one stored digest, got %d", len(db.rows))
	}
}

func TestPostgresGuardPropagatesErrors(t *testing.T) {
	db := newFakeExecer()
	db.failOn = errors.New("connection refused")
	g, _ := NewPostgresGuard(db)

	if _, err := g.TryConsume(context.Background(), "nullifier-ffffffffffff"); err == nil {
		t.Fatal("expected error")
	}
}

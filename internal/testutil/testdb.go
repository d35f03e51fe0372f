// Package testutil holds helpers shared by tests that need Postgres.
package testutil

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"

	"holdwise/internal/config"
	"holdwise/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// OpenTestStore opens a store in a throwaway schema with the run ledger
// applied, skipping the test when TEST_POSTGRES_DSN is unset. The schema is
// dropped by the returned cleanup or at the end of the test, whichever
// comes first.
func OpenTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()
	cfg, err := config.LoadTest()
	if err != nil {
		t.Skipf("skip test db: %v", err)
	}
	ctx := context.Background()
	schema := "test_" + strings.ToLower(ulid.Make().String())
	if err := execAdmin(ctx, cfg.PostgresDSN, "CREATE SCHEMA %s", schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	st, err := store.New(withSearchPath(cfg.PostgresDSN, schema))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			st.Close()
			if err := execAdmin(context.Background(), cfg.PostgresDSN, "DROP SCHEMA %s CASCADE", schema); err != nil {
				t.Logf("drop schema %s: %v", schema, err)
			}
		})
	}
	t.Cleanup(cleanup)
	if err := st.EnsureSchema(ctx); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return st, cleanup
}

// execAdmin runs one schema statement on a short-lived pool outside the
// test schema.
func execAdmin(ctx context.Context, dsn, format, schema string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()
	_, err = pool.Exec(ctx, fmt.Sprintf(format, pgx.Identifier{schema}.Sanitize()))
	return err
}

func withSearchPath(dsn, schema string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "search_path=" + url.QueryEscape(schema)
}

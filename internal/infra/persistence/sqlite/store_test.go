package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"barohead/internal/persist/core"
	"barohead/pkg/itemdb"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "nested", "barohead.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleDB(ids ...string) *itemdb.Database {
	db := itemdb.NewDatabase()
	for _, id := range ids {
		item := itemdb.NewItem(id, nil)
		item.Deconstruct = append(item.Deconstruct, itemdb.Deconstruct{
			Time:           1,
			RequiredItems:  []itemdb.RequiredItem{},
			RequiredSkills: itemdb.SkillRequirements{},
			Items:          []itemdb.ProducedItem{{ID: "scrap", Amount: 1}},
		})
		db.PutItem(item)
	}
	db.MergeTexts("English", map[string]string{"entityname.scrap": "Scrap"})
	return db
}

func TestStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if s.Driver() != core.DriverSQLite {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
	if _, err := s.Load(ctx); !errors.Is(err, core.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot on fresh file, got %v", err)
	}
	if err := s.Save(ctx, sampleDB("a", "b")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	db, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ids := db.ItemIDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected ids %v", ids)
	}
	if got := db.Items["a"].Deconstruct[0].Items[0].ID; got != "scrap" {
		t.Fatalf("unexpected produced item %q", got)
	}
	if db.Texts["English"]["entityname.scrap"] != "Scrap" {
		t.Fatalf("texts not restored: %+v", db.Texts)
	}
}

func TestStoreSaveReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Save(ctx, sampleDB("a", "b")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, sampleDB("c")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	db, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ids := db.ItemIDs(); len(ids) != 1 || ids[0] != "c" {
		t.Fatalf("old rows survived: %v", ids)
	}
	var n int
	if err := s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("count items: %d %v", n, err)
	}
}

func TestStoreReopenKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "barohead.db")
	s, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Save(ctx, sampleDB("a")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	reopened, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if reopened.Path() != path {
		t.Fatalf("path = %s", reopened.Path())
	}
	db, err := reopened.Load(ctx)
	if err != nil || db.Len() != 1 {
		t.Fatalf("Load after reopen: %v %v", db, err)
	}
}

func TestStoreLoadCorruptRow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Save(ctx, itemdb.NewDatabase()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.DB().ExecContext(ctx, `INSERT INTO items(id,payload) VALUES('x','{')`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := s.Load(ctx); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStoreEmptySnapshotIsNotMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Save(ctx, itemdb.NewDatabase()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	db, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load after saving an empty database: %v", err)
	}
	if db.Len() != 0 {
		t.Fatalf("expected empty database, got %v", db.ItemIDs())
	}
}

func TestNewStoreRejectsDirectoryPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "db"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := NewStore(context.Background(), filepath.Join(dir, "db")); err == nil {
		t.Fatalf("expected error opening a directory as database")
	}
}

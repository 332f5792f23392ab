package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/openbook/libperiod/period"
	"github.com/openbook/libperiod/storage"
)

func TestStore_Record(t *testing.T) {
	store := New()
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	rec := storage.FromRule("rec123", "Water plants", period.NewWithData("W", 1, "1,4"))

	// Test creating record
	if err := store.CreateRecord(ctx, rec); err != nil {
		t.Errorf("unexpected error creating record: %v", err)
	}
	if !rec.Created.Equal(fixed) || !rec.Modified.Equal(fixed) {
		t.Errorf("timestamps not set: %+v", rec)
	}

	// Test creating duplicate record
	if err := store.CreateRecord(ctx, rec); err == nil {
		t.Error("expected error creating duplicate record")
	} else if err.(*storage.Error).Type != storage.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Test getting record
	got, err := store.GetRecord(ctx, "rec123")
	if err != nil {
		t.Fatalf("unexpected error getting record: %v", err)
	}
	if got.Label != rec.Label || got.Details != "1,4" {
		t.Errorf("got record %+v, want %+v", got, rec)
	}

	// Callers get copies
	got.Label = "changed"
	again, _ := store.GetRecord(ctx, "rec123")
	if again.Label != "Water plants" {
		t.Errorf("store was modified through a returned record: %q", again.Label)
	}

	// Test updating record
	later := fixed.Add(time.Hour)
	store.now = func() time.Time { return later }
	got.Label = "Water all plants"
	got.SetLast(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	if err := store.UpdateRecord(ctx, got); err != nil {
		t.Errorf("unexpected error updating record: %v", err)
	}
	updated, _ := store.GetRecord(ctx, "rec123")
	if updated.Label != "Water all plants" {
		t.Errorf("got label %q after update", updated.Label)
	}
	if !updated.Created.Equal(fixed) || !updated.Modified.Equal(later) {
		t.Errorf("unexpected timestamps after update: created %v modified %v", updated.Created, updated.Modified)
	}
	if updated.Last().IsAbsent() {
		t.Error("expected last occurrence to be stored")
	}

	// Test deleting record
	if err := store.DeleteRecord(ctx, "rec123"); err != nil {
		t.Errorf("unexpected error deleting record: %v", err)
	}
	if _, err := store.GetRecord(ctx, "rec123"); err == nil {
		t.Error("expected error getting deleted record")
	} else if !storage.IsType(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Errors(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.UpdateRecord(ctx, storage.NewMockRecord("missing", "x", "D", 1, "")); !storage.IsType(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating missing record, got %v", err)
	}
	if err := store.UpdateRecord(ctx, &storage.Record{}); !storage.IsType(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput updating record without id, got %v", err)
	}
	if err := store.CreateRecord(ctx, nil); !storage.IsType(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput creating nil record, got %v", err)
	}
	if err := store.DeleteRecord(ctx, "missing"); !storage.IsType(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting missing record, got %v", err)
	}
}

func TestStore_CreateAssignsID(t *testing.T) {
	store := New()
	rec := storage.NewMockRecord("", "Taxes", "Y", 1, "105")

	if err := store.CreateRecord(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if _, err := store.GetRecord(context.Background(), rec.ID); err != nil {
		t.Errorf("record not stored under assigned id: %v", err)
	}
}

func TestStore_ListRecords(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, rec := range []*storage.Record{
		storage.NewMockRecord("1", "Rent", "M", 1, "1"),
		storage.NewMockRecord("2", "Gym", "W", 1, "1,3"),
		storage.NewMockRecord("3", "Laundry", "W", 1, "6"),
	} {
		if err := store.CreateRecord(ctx, rec); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := store.ListRecords(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error listing records: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if all[0].Label != "Gym" || all[1].Label != "Laundry" || all[2].Label != "Rent" {
		t.Errorf("records not ordered by label: %s, %s, %s", all[0].Label, all[1].Label, all[2].Label)
	}

	weekly, _ := store.ListRecords(ctx, &storage.ListOptions{Key: "w"})
	if len(weekly) != 2 {
		t.Errorf("got %d weekly records, want 2", len(weekly))
	}
}

func TestStore_LoadAndSnapshot(t *testing.T) {
	store := New()
	store.Load([]*storage.Record{
		storage.NewMockRecord("b", "B", "D", 1, ""),
		storage.NewMockRecord("a", "A", "D", 2, ""),
	})

	snap := store.Snapshot()
	if len(snap) != 2 || snap[0].ID != "a" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	store.Load(nil)
	if len(store.Snapshot()) != 0 {
		t.Error("expected Load(nil) to empty the store")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rec := storage.NewMockRecord("", "r", "D", 1, "")
				if err := store.CreateRecord(ctx, rec); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if _, err := store.ListRecords(ctx, nil); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if n := len(store.Snapshot()); n != 500 {
		t.Errorf("got %d records, want 500", n)
	}
}

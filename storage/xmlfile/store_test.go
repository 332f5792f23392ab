package xmlfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openbook/libperiod/period"
	"github.com/openbook/libperiod/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PersistsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "periods.xml")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)

	records, err := store.ListRecords(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "opening must not create the file")

	rec := storage.FromRule("gym", "Gym", period.NewWithData("W", 1, "1,3,5"))
	rec.SetLast(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.CreateRecord(ctx, rec))
	require.NoError(t, store.CreateRecord(ctx, storage.FromRule("rent", "Rent", period.NewWithData("M", 1, "1"))))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<p:period id="gym" key="W" every="1"`)
	assert.Contains(t, string(data), `<p:last>2024-01-08</p:last>`)

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := reopened.GetRecord(ctx, "gym")
	require.NoError(t, err)
	assert.Equal(t, "Gym", got.Label)
	assert.Equal(t, "1,3,5", got.Details)
	assert.Equal(t, rec.Created.Unix(), got.Created.Unix())

	r, err := got.Rule()
	require.NoError(t, err)
	assert.True(t, r.Equal(period.NewWithData("W", 1, "1,3,5")))

	last, ok := got.Last().Get()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), last)

	require.NoError(t, reopened.DeleteRecord(ctx, "rent"))
	again, err := Open(path)
	require.NoError(t, err)
	all, err := again.ListRecords(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "gym", all[0].ID)
}

func TestStore_UpdateRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "periods.xml")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.CreateRecord(ctx, storage.FromRule("a", "Backup", period.NewWithData("D", 1, ""))))

	rec, err := store.GetRecord(ctx, "a")
	require.NoError(t, err)
	rec.SetRule(period.NewWithData("W", 2, "6"))
	require.NoError(t, store.UpdateRecord(ctx, rec))

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := reopened.GetRecord(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "W", got.Key)
	assert.Equal(t, uint(2), got.Every)
	assert.Equal(t, "6", got.Details)

	err = store.UpdateRecord(ctx, storage.NewMockRecord("missing", "", "D", 1, ""))
	assert.True(t, storage.IsType(err, storage.ErrNotFound))
}

func TestStore_KeepsDamagedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "periods.xml")
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<p:periods xmlns:p="urn:openbook:period" version="1">
  <p:period id="odd" key="Q" every="1">
    <p:detail>1</p:detail>
    <p:detail>oops</p:detail>
  </p:period>
</p:periods>`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	store, err := Open(path)
	require.NoError(t, err)

	rec, err := store.GetRecord(context.Background(), "odd")
	require.NoError(t, err)
	assert.Equal(t, "1,oops", rec.Details)

	r, err := rec.Rule()
	assert.True(t, storage.IsType(err, storage.ErrInvalidData))
	assert.True(t, r.IsEmpty())
}

func TestStore_OpenInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "periods.xml")
	require.NoError(t, os.WriteFile(path, []byte("<rules/>"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, storage.IsType(err, storage.ErrInvalidData))
}

func TestStore_WriteFailureRollsBack(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	store, err := Open(filepath.Join(dir, "periods.xml"))
	require.NoError(t, err)

	// a plain file where the directory should be makes every save fail
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))

	err = store.CreateRecord(context.Background(), storage.NewMockRecord("a", "A", "D", 1, ""))
	require.Error(t, err)
	assert.True(t, storage.IsType(err, storage.ErrInvalidData))

	records, err := store.ListRecords(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "periods.xml"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreateRecord(context.Background(), storage.NewMockRecord("", "r", "D", 1, "")))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasPrefix(entries[0].Name(), "."))
}

func TestStore_WatchReloadsExternalChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "periods.xml")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watched, err := Open(path, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- watched.Watch(ctx) }()
	time.Sleep(100 * time.Millisecond)

	other, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, other.CreateRecord(context.Background(), storage.NewMockRecord("ext", "External", "M", 1, "15")))

	require.Eventually(t, func() bool {
		rec, err := watched.GetRecord(context.Background(), "ext")
		return err == nil && rec.Label == "External"
	}, 3*time.Second, 20*time.Millisecond)

	// a broken rewrite keeps the last good content
	require.NoError(t, os.WriteFile(path, []byte("<broken"), 0o644))
	time.Sleep(150 * time.Millisecond)
	_, err = watched.GetRecord(context.Background(), "ext")
	assert.NoError(t, err)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

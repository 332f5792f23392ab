// Package xmlfile keeps period records in a single XML document on disk.
//
// Every mutation rewrites the whole document through a temporary file and a
// rename, so readers never see a partial file. Watch reloads the document
// when another process replaces it.
package xmlfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/openbook/libperiod/internal/xml"
	"github.com/openbook/libperiod/storage"
	"github.com/openbook/libperiod/storage/memory"
)

const defaultDebounce = 200 * time.Millisecond

// Store implements storage.Storage on top of an XML file. Records are
// served from an in-memory mirror of the file.
type Store struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu   sync.Mutex // serializes writes and reloads
	mem  *memory.Store
	hash string // content hash of the file as last read or written
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDebounce sets how long Watch waits for a burst of file events to
// settle before reloading
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// Open loads the document at path. A missing file is an empty store; it is
// created on the first write.
func Open(path string, opts ...Option) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	s := &Store{
		path:     abs,
		debounce: defaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		mem:      memory.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the absolute path of the document
func (s *Store) Path() string {
	return s.path
}

func (s *Store) GetRecord(ctx context.Context, id string) (*storage.Record, error) {
	return s.mem.GetRecord(ctx, id)
}

func (s *Store) ListRecords(ctx context.Context, opts *storage.ListOptions) ([]*storage.Record, error) {
	return s.mem.ListRecords(ctx, opts)
}

func (s *Store) CreateRecord(ctx context.Context, rec *storage.Record) error {
	return s.mutate(func() error { return s.mem.CreateRecord(ctx, rec) })
}

func (s *Store) UpdateRecord(ctx context.Context, rec *storage.Record) error {
	return s.mutate(func() error { return s.mem.UpdateRecord(ctx, rec) })
}

func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	return s.mutate(func() error { return s.mem.DeleteRecord(ctx, id) })
}

// mutate applies fn to the mirror and persists the result. The mirror is
// restored when the file cannot be written.
func (s *Store) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.mem.Snapshot()
	if err := fn(); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		s.mem.Load(before)
		return &storage.Error{
			Type:    storage.ErrInvalidData,
			Message: "failed to write " + s.path,
			Err:     err,
		}
	}
	return nil
}

// save writes the mirror to disk. Callers hold s.mu.
func (s *Store) save() error {
	records := s.mem.Snapshot()
	periods := make([]xml.PeriodElement, len(records))
	for i, rec := range records {
		periods[i] = toElement(rec)
	}

	data, err := xml.NewDocument(periods).WriteToBytes()
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return err
	}

	s.hash = contentHash(data)
	s.logger.Debug("period document written",
		slog.String("path", s.path),
		slog.Int("records", len(records)))
	return nil
}

// reload replaces the mirror with the file content. It reports false when
// the content is unchanged since the last read or write.
func (s *Store) reload() (bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		data = nil
	} else if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	hash := contentHash(data)
	if s.hash != "" && hash == s.hash {
		return false, nil
	}

	var records []*storage.Record
	if len(data) > 0 {
		periods, err := xml.ParseBytes(data)
		if err != nil {
			return false, &storage.Error{
				Type:    storage.ErrInvalidData,
				Message: "failed to load " + s.path,
				Err:     err,
			}
		}
		records = make([]*storage.Record, len(periods))
		for i := range periods {
			records[i] = fromElement(&periods[i])
		}
	}

	s.mem.Load(records)
	s.hash = hash
	return true, nil
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func toElement(rec *storage.Record) xml.PeriodElement {
	p := xml.PeriodElement{
		ID:       rec.ID,
		Label:    rec.Label,
		Key:      rec.Key,
		Every:    rec.Every,
		Last:     rec.LastOccurrence,
		Created:  rec.Created,
		Modified: rec.Modified,
	}
	p.SetDetailsCSV(rec.Details)
	return p
}

func fromElement(p *xml.PeriodElement) *storage.Record {
	return &storage.Record{
		ID:             p.ID,
		Label:          p.Label,
		Key:            p.Key,
		Every:          p.Every,
		Details:        p.DetailsCSV(),
		LastOccurrence: p.Last,
		Created:        p.Created,
		Modified:       p.Modified,
	}
}

package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/storage"
)

// Backend owns the BadgerDB handle behind a course index.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLog routes badger's printf logging into slog. Badger reports
// routine compaction and value log activity at info, which is demoted.
type badgerLog struct {
	logger *slog.Logger
}

var _ badger.Logger = badgerLog{}

func (l badgerLog) Errorf(format string, args ...any)   { l.log(slog.LevelError, format, args) }
func (l badgerLog) Warningf(format string, args ...any) { l.log(slog.LevelWarn, format, args) }
func (l badgerLog) Infof(format string, args ...any)    { l.log(slog.LevelDebug, format, args) }
func (l badgerLog) Debugf(format string, args ...any)   { l.log(slog.LevelDebug, format, args) }

func (l badgerLog) log(level slog.Level, format string, args []any) {
	if !l.logger.Enabled(context.Background(), level) {
		return
	}
	l.logger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// OpenBackend opens the database directory at path, creating it if needed.
// With inMemory set the path is ignored and nothing touches disk.
func OpenBackend(path string, inMemory bool) (*Backend, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	if !inMemory {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(path)
	}

	logger := slog.Default().With("component", "badger")
	opts = opts.
		WithLogger(badgerLog{logger: logger}).
		WithCompression(options.None)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening course index: %w", err)
	}
	return &Backend{db: db, logger: logger}, nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// view runs fn in a read-only transaction.
func (b *Backend) view(fn func(tx *badger.Txn) error) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	return b.db.View(fn)
}

// update runs fn in a read-write transaction that commits when fn
// returns nil and is discarded otherwise.
func (b *Backend) update(fn func(tx *badger.Txn) error) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	return b.db.Update(fn)
}

// countKeys counts keys under prefix without loading values.
func countKeys(tx *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	n := 0
	for iter.Rewind(); iter.Valid(); iter.Next() {
		n++
	}
	return n
}

// eachCourseVector decodes every stored course vector in course order.
// Undecodable entries are logged and skipped.
func (b *Backend) eachCourseVector(tx *badger.Txn, fn func(v *core.CourseVector) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(courseVectorPrefix)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		var entry *core.CourseVector
		err := item.Value(func(val []byte) error {
			var err error
			entry, err = storage.UnmarshalCourseVector(val)
			return err
		})
		if err != nil {
			b.logger.Warn("skipping unreadable course vector", "key", string(item.Key()), "err", err)
			continue
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// similarity is the dot product over the shared prefix of a and b. For
// unit vectors this is their cosine similarity.
func similarity(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := range n {
		sum += a[i] * b[i]
	}
	return sum
}

package metadata

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// RunRecord describes one capture run.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	AppName    string    `json:"app_name"`
	AppPID     int       `json:"app_pid"`
	Status     string    `json:"status"` // running, completed, cancelled, aborted
	OutputPath string    `json:"output_path,omitempty"`
	Frames     int       `json:"frames"`
	Pages      int       `json:"pages"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// FrameRecord describes one captured frame of a run. Fingerprints are kept
// so an aborted run's frames can be re-deduplicated offline.
type FrameRecord struct {
	RunID       string    `json:"run_id"`
	Index       int       `json:"index"`
	Path        string    `json:"path"`
	Fingerprint string    `json:"fingerprint"`
	ROI         string    `json:"roi"`
	Verdict     string    `json:"verdict"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Store wraps BadgerDB for run and frame records.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a BadgerDB at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %v", err)
	}
	return &Store{db: db}, nil
}

// Close closes the BadgerDB.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutRun stores a run record.
func (s *Store) PutRun(rec RunRecord) error {
	key := []byte("run:" + rec.RunID)
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// GetRun retrieves a run record by ID.
func (s *Store) GetRun(runID string) (RunRecord, error) {
	key := []byte("run:" + runID)
	var rec RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, err
}

// PutFrame stores a frame record under its run.
func (s *Store) PutFrame(rec FrameRecord) error {
	key := frameKey(rec.RunID, rec.Index)
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// ListFrames retrieves a run's frame records in sequence order.
func (s *Store) ListFrames(runID string) ([]FrameRecord, error) {
	prefix := []byte("frame:" + runID + ":")
	var recs []FrameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec FrameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	return recs, err
}

// frameKey zero-pads the index so badger's lexicographic iteration yields
// sequence order.
func frameKey(runID string, index int) []byte {
	return []byte(fmt.Sprintf("frame:%s:%06d", runID, index))
}

package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/buntdb"
)

// Repository caches worker snapshots and per-day history so reports can be
// rebuilt without reaching the remote feed.
type Repository interface {
	SaveSnapshot(w WorkerSnapshot) error
	GetSnapshot(workerID string) (WorkerSnapshot, error)
	ListSnapshots() ([]WorkerSnapshot, error)

	SaveDays(workerID string, recs []DailyRecord) error
	ListDays(workerID string, from, to Date) ([]DailyRecord, error)
}

func NewRepository(db *buntdb.DB) Repository {
	return &repository{db: db}
}

type repository struct {
	db *buntdb.DB
}

const (
	snapshotKeyPrefix = "snapshot:"
	historyKeyPrefix  = "history:"
)

func snapshotKey(workerID string) string {
	return snapshotKeyPrefix + workerID
}

func historyKey(workerID string, d Date) string {
	return historyKeyPrefix + workerID + ":" + string(d)
}

func (r *repository) SaveSnapshot(w WorkerSnapshot) error {
	if w.WorkerID == "" {
		return errors.New("snapshot without worker id")
	}
	bs, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(snapshotKey(w.WorkerID), string(bs), nil)
		return err
	})
}

func (r *repository) GetSnapshot(workerID string) (WorkerSnapshot, error) {
	var w WorkerSnapshot
	err := r.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(snapshotKey(workerID))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(v), &w)
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return WorkerSnapshot{}, fmt.Errorf("snapshot %s: %w", workerID, ErrNotFound)
	} else if err != nil {
		return WorkerSnapshot{}, err
	}
	return w, nil
}

func (r *repository) ListSnapshots() ([]WorkerSnapshot, error) {
	var ws []WorkerSnapshot
	err := r.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.AscendKeys(snapshotKeyPrefix+"*", func(key, value string) bool {
			var w WorkerSnapshot
			if err := json.Unmarshal([]byte(value), &w); err != nil {
				decodeErr = fmt.Errorf("%s: %w", key, err)
				return false
			}
			ws = append(ws, w)
			return true
		})
		if err != nil {
			return err
		}
		return decodeErr
	})
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *repository) SaveDays(workerID string, recs []DailyRecord) error {
	if workerID == "" || strings.Contains(workerID, ":") {
		return fmt.Errorf("worker id %q cannot be stored", workerID)
	}
	return r.db.Update(func(tx *buntdb.Tx) error {
		for _, rec := range recs {
			if _, err := ParseDate(string(rec.Date)); err != nil {
				return err
			}
			bs, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if _, _, err := tx.Set(historyKey(workerID, rec.Date), string(bs), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListDays returns the stored days of workerID within [from, to] in date
// order. Days never saved are simply missing.
func (r *repository) ListDays(workerID string, from, to Date) ([]DailyRecord, error) {
	var recs []DailyRecord
	err := r.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.AscendRange("", historyKey(workerID, from), historyKey(workerID, to)+"\x00", func(key, value string) bool {
			var rec DailyRecord
			if err := json.Unmarshal([]byte(value), &rec); err != nil {
				decodeErr = fmt.Errorf("%s: %w", key, err)
				return false
			}
			recs = append(recs, rec)
			return true
		})
		if err != nil {
			return err
		}
		return decodeErr
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

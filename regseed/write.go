package regseed

import (
	"errors"
	"fmt"
	"io"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/oramatt/registration-app/common/log"
	"github.com/oramatt/registration-app/common/text"
)

// Snapshot captures the observability numbers reported around a batch
// write. It is never persisted.
type Snapshot struct {
	Records      int
	StorageBytes int64
}

// Datastore is the narrow surface the batch write needs. Production code
// uses the mgo-backed implementation; tests substitute fakes.
type Datastore interface {
	Snapshot() (Snapshot, error)
	BulkInsert(records []Record) error
	Drop() error
}

// WriteReport summarizes one batch write. After.Records is ground truth for
// how much of the batch was applied; on a mid-batch failure it reflects the
// partial application rather than hiding it.
type WriteReport struct {
	Requested int
	Before    Snapshot
	After     Snapshot
}

// Inserted is the observed document count delta.
func (r WriteReport) Inserted() int {
	return r.After.Records - r.Before.Records
}

// SizeDelta is the observed storage growth in bytes.
func (r WriteReport) SizeDelta() int64 {
	return r.After.StorageBytes - r.Before.StorageBytes
}

// WriteError wraps a datastore-level failure of the bulk insert. The batch
// is never retried automatically: records carry no idempotency key, so a
// blind retry risks duplicate insertion.
type WriteError struct {
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("bulk insert failed: %v", e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

var errLostConnection = errors.New("lost connection to server")

// describeWriteFailure maps driver-level oddities to readable causes; a
// connection dropped mid-write surfaces from the driver as a bare io.EOF.
func describeWriteFailure(err error) error {
	if err == io.EOF {
		return errLostConnection
	}
	return err
}

// writeBatch snapshots the datastore, performs one bulk insert of the whole
// batch, snapshots again and reports the deltas. Counts and sizes are
// logged on both sides regardless of success so a partial failure is still
// observable.
func writeBatch(store Datastore, records []Record) (WriteReport, error) {
	report := WriteReport{Requested: len(records)}

	before, err := store.Snapshot()
	if err != nil {
		return report, &WriteError{Cause: describeWriteFailure(err)}
	}
	report.Before = before
	log.Logvf(log.Always, "total records before insert: %v", before.Records)
	log.Logvf(log.Always, "database size before insert: %v", text.FormatMegabyteAmount(before.StorageBytes))

	insertErr := store.BulkInsert(records)

	after, err := store.Snapshot()
	if err != nil {
		if insertErr != nil {
			return report, &WriteError{Cause: describeWriteFailure(insertErr)}
		}
		return report, &WriteError{Cause: describeWriteFailure(err)}
	}
	report.After = after
	log.Logvf(log.Always, "total records after insert: %v (%v of %v requested applied)",
		after.Records, report.Inserted(), report.Requested)
	log.Logvf(log.Always, "database size after insert: %v (%v added)",
		text.FormatMegabyteAmount(after.StorageBytes), text.FormatByteAmount(report.SizeDelta()))

	if insertErr != nil {
		return report, &WriteError{Cause: describeWriteFailure(insertErr)}
	}
	return report, nil
}

// mongoStore is the mgo-backed Datastore.
type mongoStore struct {
	db         *mgo.Database
	collection *mgo.Collection
}

func newMongoStore(session *mgo.Session, dbName, collectionName string) *mongoStore {
	db := session.DB(dbName)
	return &mongoStore{
		db:         db,
		collection: db.C(collectionName),
	}
}

func (s *mongoStore) Snapshot() (Snapshot, error) {
	var stats struct {
		StorageSize float64 `bson:"storageSize"`
	}
	if err := s.db.Run(bson.D{{Name: "dbStats", Value: 1}}, &stats); err != nil {
		return Snapshot{}, fmt.Errorf("dbStats failed: %v", err)
	}
	count, err := s.collection.Count()
	if err != nil {
		return Snapshot{}, fmt.Errorf("count failed: %v", err)
	}
	return Snapshot{Records: count, StorageBytes: int64(stats.StorageSize)}, nil
}

// BulkInsert writes the whole batch as one unordered bulk operation.
// Partial application on failure is datastore-defined; the surrounding
// snapshots are the only ground truth for how much got in.
func (s *mongoStore) BulkInsert(records []Record) error {
	bulk := s.collection.Bulk()
	bulk.Unordered()
	for i := range records {
		bulk.Insert(&records[i])
	}
	_, err := bulk.Run()
	return err
}

func (s *mongoStore) Drop() error {
	err := s.collection.DropCollection()
	if err != nil && err.Error() == "ns not found" {
		return nil
	}
	return err
}

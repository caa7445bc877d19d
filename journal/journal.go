// Package journal keeps a sqlite trail of the calls made through a ServiceCaller
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/russross/meddler"
	"github.com/xinsproject/servicecall/caller"
	"github.com/xinsproject/servicecall/db"
	"github.com/xinsproject/servicecall/db/compatibility"
	"github.com/xinsproject/servicecall/descriptor"
	"github.com/xinsproject/servicecall/journal/migrations"
	"github.com/xinsproject/servicecall/log"
)

const (
	callTable    = "call"
	attemptTable = "attempt"
	ownerName    = "journal"
)

var ErrDisabled = errors.New("call journal is disabled")

// Journal persists the outcome of every call
type Journal struct {
	db                   *sql.DB
	logger               *log.Logger
	recentLimit          int
	requireCompatibility bool
}

// New runs the migrations and opens the journal database
func New(cfg Config, logger *log.Logger) (*Journal, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.WithFields("module", "journal")
	}
	if err := migrations.RunMigrations(cfg.DBPath); err != nil {
		return nil, err
	}
	database, err := db.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening journal db %s: %w", cfg.DBPath, err)
	}
	limit := cfg.RecentCallsLimit
	if limit == 0 {
		limit = defaultRecentCallsLimit
	}
	return &Journal{
		db:                   database,
		logger:               logger,
		recentLimit:          limit,
		requireCompatibility: cfg.RequireStorageContentCompatibility,
	}, nil
}

// CheckTopology compares the descriptors with the ones the journal was written with
func (j *Journal) CheckTopology(ctx context.Context, descriptors map[string]descriptor.Descriptor) error {
	check := compatibility.NewCompatibilityCheck(
		j.requireCompatibility,
		func(context.Context) (Topology, error) {
			return NewTopology(descriptors), nil
		},
		compatibility.NewKeyValueToCompatibilityStorage[Topology](db.NewKeyValueStorage(j.db), ownerName),
	)
	check.Logger = j.logger
	return check.Check(ctx, nil)
}

// Observer returns a caller.Observer recording the calls of the named descriptor
func (j *Journal) Observer(descriptorName string) caller.Observer {
	return &callObserver{journal: j, descriptor: descriptorName}
}

// Ping checks the database is reachable
func (j *Journal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}

// RecentCalls returns the latest calls, newest first. limit <= 0 uses the configured limit.
func (j *Journal) RecentCalls(ctx context.Context, limit int) ([]*CallRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = j.recentLimit
	}
	var calls []*CallRow
	err := meddler.QueryAll(j.db, &calls,
		fmt.Sprintf("SELECT * FROM %s ORDER BY id DESC LIMIT $1;", callTable), limit)
	if err != nil {
		return nil, fmt.Errorf("error reading recent calls: %w", err)
	}
	for _, c := range calls {
		err = meddler.QueryAll(j.db, &c.FailedAttempts,
			fmt.Sprintf("SELECT * FROM %s WHERE call_id = $1 ORDER BY position ASC;", attemptTable), c.ID)
		if err != nil {
			return nil, fmt.Errorf("error reading attempts of call %d: %w", c.ID, err)
		}
	}
	return calls, nil
}

func (j *Journal) record(ctx context.Context, row *CallRow,
	failedTargets []*descriptor.TargetDescriptor, failures []caller.FailureInfo) {
	// a canceled call is still recorded
	ctx = context.WithoutCancel(ctx)
	if err := j.insert(ctx, row, failedTargets, failures); err != nil {
		j.logger.Errorf("error recording call of %s: %v", row.Descriptor, err)
	}
}

func (j *Journal) insert(ctx context.Context, row *CallRow,
	failedTargets []*descriptor.TargetDescriptor, failures []caller.FailureInfo) error {
	return db.RunInTx(ctx, j.db, func(tx db.Txer) error {
		if err := meddler.Insert(tx, callTable, row); err != nil {
			return fmt.Errorf("error inserting call: %w", err)
		}
		for i, target := range failedTargets {
			attempt := &AttemptRow{
				CallID:      row.ID,
				Position:    i,
				TargetURL:   target.URL(),
				Fingerprint: target.Fingerprint(),
				Kind:        string(failures[i].Kind),
				Message:     failures[i].Message,
			}
			if err := meddler.Insert(tx, attemptTable, attempt); err != nil {
				return fmt.Errorf("error inserting attempt %d: %w", i, err)
			}
		}
		tx.AddCommitCallback(func() {
			j.logger.Debugf("recorded call %d of %s (%d attempt(s))", row.ID, row.Descriptor, row.Attempts)
		})
		return nil
	})
}

type callObserver struct {
	journal    *Journal
	descriptor string
}

func (o *callObserver) OnAttempt(context.Context, caller.AttemptRecord) {}

func (o *callObserver) OnSuccess(ctx context.Context, _ any, result *caller.CallResult, elapsed time.Duration) {
	o.journal.record(ctx, &CallRow{
		Descriptor:        o.descriptor,
		Succeeded:         true,
		TargetURL:         result.SucceededTarget.URL(),
		TargetFingerprint: result.SucceededTarget.Fingerprint(),
		Attempts:          result.Attempts(),
		StartedAt:         time.Now().Add(-elapsed).UnixMilli(),
		Duration:          elapsed,
	}, result.FailedTargets, result.Failures)
}

func (o *callObserver) OnFailure(ctx context.Context, err *caller.CallFailedError, elapsed time.Duration) {
	o.journal.record(ctx, &CallRow{
		Descriptor: o.descriptor,
		Attempts:   len(err.FailedTargets),
		StartedAt:  time.Now().Add(-elapsed).UnixMilli(),
		Duration:   elapsed,
	}, err.FailedTargets, err.Failures)
}

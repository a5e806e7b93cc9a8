package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/shuleni/core"
)

var (
	// errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrRecordExists   = errors.New("attendance already recorded for this student and date")
)

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		// QueryRecords applies AND operation on available QueryFilter fields.
		QueryRecords(ctx context.Context, filter *QueryFilter) ([]Record, error)
		DeleteRecordsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Record(nr NewRecord, recordedBy string) (Record, error)
		RecordSheet(ns NewSheet, recordedBy string) ([]Record, error)
		Query(filter *QueryFilter) ([]Record, error)
		WeeklyStats(classID string, from, to time.Time) ([]WeekStat, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Record(nr NewRecord, recordedBy string) (Record, error) {
	rec := Record{
		ClassID:    nr.ClassID,
		StudentID:  nr.StudentID,
		Date:       nr.Date.UTC().Truncate(24 * time.Hour),
		Present:    nr.Present,
		RecordedBy: recordedBy,
		CreatedAt:  time.Now().UTC(),
	}
	rec, err := svc.repo.CreateRecord(context.Background(), rec)
	if err != nil {
		if err == ErrRecordExists {
			return Record{}, core.NewConflictError(err, core.FieldError{Field: "date", Error: err.Error()})
		}
		return Record{}, err
	}
	return rec, nil
}

// RecordSheet records each entry independently; a duplicate entry fails the
// whole sheet before any further entries are written.
func (svc *service) RecordSheet(ns NewSheet, recordedBy string) ([]Record, error) {
	records := make([]Record, 0, len(ns.Entries))
	for _, entry := range ns.Entries {
		rec, err := svc.Record(NewRecord{
			ClassID:   ns.ClassID,
			StudentID: entry.StudentID,
			Date:      ns.Date,
			Present:   entry.Present,
		}, recordedBy)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (svc *service) Query(filter *QueryFilter) ([]Record, error) {
	return svc.repo.QueryRecords(context.Background(), filter)
}

func (svc *service) WeeklyStats(classID string, from, to time.Time) ([]WeekStat, error) {
	records, err := svc.repo.QueryRecords(context.Background(), &QueryFilter{
		ClassID:  classID,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, err
	}
	return Weekly(records), nil
}

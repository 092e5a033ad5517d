package booking

import "context"

// Journal stores attempt records for later inspection.
type Journal interface {
	Record(ctx context.Context, rec AttemptRecord) error
	Recent(ctx context.Context, limit int) ([]AttemptRecord, error)
	Close() error
}

// NopJournal drops every record.
type NopJournal struct{}

func (NopJournal) Record(context.Context, AttemptRecord) error            { return nil }
func (NopJournal) Recent(context.Context, int) ([]AttemptRecord, error) { return nil, nil }
func (NopJournal) Close() error                                         { return nil }

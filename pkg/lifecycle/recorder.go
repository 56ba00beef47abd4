package lifecycle

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// Recorder stamps notification drafts and merges them into the history
type Recorder struct {
	now   func() time.Time
	newID func() string
}

// RecorderOption tunes a Recorder
type RecorderOption func(*Recorder)

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(gen func() string) RecorderOption {
	return func(r *Recorder) { r.newID = gen }
}

// NewRecorder builds a recorder that reads time from now
func NewRecorder(now func() time.Time, opts ...RecorderOption) *Recorder {
	r := &Recorder{now: now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stamp turns drafts into log entries, in draft order. The whole batch shares
// one timestamp taken at call time; Seq numbers the entries from 0.
func (r *Recorder) Stamp(drafts []models.NotificationDraft) []models.NotificationLog {
	at := r.now()
	out := make([]models.NotificationLog, 0, len(drafts))
	for i, d := range drafts {
		out = append(out, models.NotificationLog{
			ID:         r.newID(),
			ClientID:   d.ClientID,
			ClientName: d.ClientName,
			Message:    d.Message,
			SentAt:     at,
			Seq:        i,
		})
	}
	return out
}

// Record stamps drafts and returns the merged history newest first together
// with the created entries. existing is not modified.
func (r *Recorder) Record(existing []models.NotificationLog, drafts []models.NotificationDraft) (merged, created []models.NotificationLog) {
	created = r.Stamp(drafts)

	merged = make([]models.NotificationLog, 0, len(created)+len(existing))
	merged = append(merged, created...)
	merged = append(merged, existing...)
	SortNewestFirst(merged)

	return merged, created
}

// SortNewestFirst sorts in place by SentAt descending. Entries with the same
// time keep their relative order.
func SortNewestFirst(logs []models.NotificationLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].SentAt.After(logs[j].SentAt)
	})
}

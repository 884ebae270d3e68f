package status

import (
	"sync/atomic"
	"time"
)

// APIVersion is reported by every status snapshot.
const APIVersion = 1

// Processed counts classification jobs by state.
type Processed struct {
	Success int64 `json:"success"`
	Fail    int64 `json:"fail"`
	Running int64 `json:"running"`
	Queued  int64 `json:"queued"`
}

// Snapshot is a point-in-time view of the service.
type Snapshot struct {
	Uptime     int64     `json:"uptime"`
	Processed  Processed `json:"processed"`
	Health     string    `json:"health"`
	APIVersion int       `json:"api_version"`
}

// Reporter tracks uptime and job counters. It is safe for concurrent use.
type Reporter struct {
	started time.Time
	now     func() time.Time

	success atomic.Int64
	fail    atomic.Int64
	running atomic.Int64
	queued  atomic.Int64
}

// NewReporter creates a Reporter whose uptime starts now.
func NewReporter() *Reporter {
	return &Reporter{started: time.Now(), now: time.Now}
}

// Begin marks a job as running. The returned func records the result and
// must be called exactly once.
func (r *Reporter) Begin() func(ok bool) {
	r.running.Add(1)
	return func(ok bool) {
		if ok {
			r.success.Add(1)
		} else {
			r.fail.Add(1)
		}
		r.running.Add(-1)
	}
}

// Snapshot returns the current status.
func (r *Reporter) Snapshot() Snapshot {
	return Snapshot{
		Uptime: int64(r.now().Sub(r.started) / time.Second),
		Processed: Processed{
			Success: r.success.Load(),
			Fail:    r.fail.Load(),
			Running: r.running.Load(),
			Queued:  r.queued.Load(),
		},
		Health:     "ok",
		APIVersion: APIVersion,
	}
}

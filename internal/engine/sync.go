package engine

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"admin-console/internal/api"
)

// joinFetchLimit bounds how many join rows one reconciliation pass reads.
const joinFetchLimit = 500

// JoinSpec describes one many-to-many relation hanging off an owning
// resource: the join table's REST path, the field holding the owner's ID
// and the field holding the counterpart's ID. Join-row primary keys are
// (OwnerField, CounterpartField) in that order.
type JoinSpec struct {
	Key              string // draft key and included-array name, e.g. "skills"
	JoinPath         string
	OwnerField       string
	CounterpartField string
}

// JoinSpecsFor returns the many-to-many relations the editor must
// reconcile after writing the owning record. Only jobs carry them.
func JoinSpecsFor(resourceKey string) []JoinSpec {
	if resourceKey != "jobs" {
		return nil
	}
	return []JoinSpec{
		{Key: "skills", JoinPath: "job-skills", OwnerField: "jobId", CounterpartField: "skillId"},
		{Key: "categories", JoinPath: "job-categories", OwnerField: "jobId", CounterpartField: "categoryId"},
	}
}

// SyncReport counts what one reconciliation pass attempted and what failed.
// A non-zero Failed means the join table was left between the old and the
// desired state; re-running the synchronizer converges it.
type SyncReport struct {
	Added     int
	Removed   int
	Attempted int
	Failed    int
	Errs      []error
}

func (r *SyncReport) String() string {
	if r.Failed == 0 {
		return fmt.Sprintf("%d added, %d removed", r.Added, r.Removed)
	}
	return fmt.Sprintf("%d/%d operations failed (%d added, %d removed)",
		r.Failed, r.Attempted, r.Added, r.Removed)
}

// Err returns a single error summarizing partial failure, or nil.
func (r *SyncReport) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("join sync incomplete: %s", r.String())
}

// Synchronizer converges a join table toward a desired counterpart-ID set
// for one owning record. It is deliberately not transactional: adds and
// deletes are issued as one concurrent batch and a partial failure leaves
// the table in an intermediate state the caller converges by re-running.
type Synchronizer struct {
	client *api.Client
}

func NewSynchronizer(client *api.Client) *Synchronizer {
	return &Synchronizer{client: client}
}

// Sync reconciles the join rows owned by ownerID against desired. The
// owning record must already exist. toAdd and toDelete act on disjoint ID
// sets by construction, so ordering between them is irrelevant.
func (s *Synchronizer) Sync(ctx context.Context, spec JoinSpec, ownerID string, desired map[string]bool) (*SyncReport, error) {
	rows, _, err := s.client.List(ctx, spec.JoinPath, 1, joinFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("sync %s: fetch join rows: %w", spec.JoinPath, err)
	}

	existing := make(map[string]bool)
	for _, row := range rows {
		if Stringify(row[spec.OwnerField]) != ownerID {
			continue
		}
		if id := Stringify(row[spec.CounterpartField]); id != "" {
			existing[id] = true
		}
	}

	var toAdd, toDelete []string
	for id := range desired {
		if !existing[id] {
			toAdd = append(toAdd, id)
		}
	}
	for id := range existing {
		if !desired[id] {
			toDelete = append(toDelete, id)
		}
	}

	report := &SyncReport{Attempted: len(toAdd) + len(toDelete)}
	var mu sync.Mutex
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Failed++
			report.Errs = append(report.Errs, err)
		}
	}

	var g errgroup.Group
	for _, id := range toAdd {
		id := id
		g.Go(func() error {
			_, err := s.client.Create(ctx, spec.JoinPath, api.Row{
				spec.OwnerField:       ownerID,
				spec.CounterpartField: id,
			})
			if err == nil {
				mu.Lock()
				report.Added++
				mu.Unlock()
			}
			record(err)
			return nil
		})
	}
	for _, id := range toDelete {
		id := id
		g.Go(func() error {
			err := s.client.Delete(ctx, spec.JoinPath, []string{ownerID, id})
			if err == nil {
				mu.Lock()
				report.Removed++
				mu.Unlock()
			}
			record(err)
			return nil
		})
	}
	_ = g.Wait()

	return report, report.Err()
}

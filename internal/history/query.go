// Package history answers hist/prev/show queries against a session.
package history

import (
	"github.com/fakeyudi/labs/internal/session"
)

// DefaultCount is the number of records Hist returns when n <= 0 and no other
// default is configured.
const DefaultCount = 10

// Query reads records from a session store.
type Query struct {
	store        *session.Store
	defaultCount int
}

// New returns a Query over store. defaultCount <= 0 selects DefaultCount.
func New(store *session.Store, defaultCount int) *Query {
	if defaultCount <= 0 {
		defaultCount = DefaultCount
	}
	return &Query{store: store, defaultCount: defaultCount}
}

// Hist returns up to n records, newest first, skipping the prevOffset newest
// ones. Asking for more records than exist returns what exists; an empty
// session yields an empty slice.
func (q *Query) Hist(n, prevOffset int) ([]session.Record, error) {
	if n <= 0 {
		n = q.defaultCount
	}
	if prevOffset < 0 {
		prevOffset = 0
	}
	indices, err := q.store.ListRecords()
	if err != nil {
		return nil, err
	}

	end := len(indices) - prevOffset // exclusive, in ascending order
	if end <= 0 {
		return []session.Record{}, nil
	}
	start := max(end-n, 0)

	records := make([]session.Record, 0, end-start)
	for i := end - 1; i >= start; i-- {
		rec, err := q.store.Load(indices[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Prev returns the most recent record, or a *session.NotFoundError when the
// session holds none.
func (q *Query) Prev() (session.Record, error) {
	records, err := q.Hist(1, 0)
	if err != nil {
		return session.Record{}, err
	}
	if len(records) == 0 {
		return session.Record{}, &session.NotFoundError{Root: q.store.Root(), Index: -1}
	}
	return records[0], nil
}

// Show returns the record stored under index.
func (q *Query) Show(index int) (session.Record, error) {
	return q.store.Load(index)
}

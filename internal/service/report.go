package service

import (
	"sort"

	"github.com/emrgen/pagepurge/internal/cascade"
	"github.com/emrgen/pagepurge/internal/model"
)

// Report describes a committed permanent deletion.
type Report struct {
	Page model.PageRef
	// Rows holds removed rows per table.
	Rows              cascade.Counts
	Revisions         int
	ArchivedRevisions int
	ContentDeleted    int64
	ContentKept       int64
	UnmappedAddresses int64
	ExternalBlobs     int
	// FileStatus is the live file deletion outcome, empty for other pages.
	FileStatus      string
	FileKeysCleaned []string
	Categories      []string
}

func newReport(ref model.PageRef) *Report {
	return &Report{Page: ref, Rows: cascade.Counts{}}
}

// Tables lists the tables with removed rows in name order.
func (r *Report) Tables() []string {
	tables := make([]string, 0, len(r.Rows))
	for name, n := range r.Rows {
		if n > 0 {
			tables = append(tables, name)
		}
	}
	sort.Strings(tables)

	return tables
}

// TotalRows is the number of removed rows over all tables.
func (r *Report) TotalRows() int64 {
	var total int64
	for _, n := range r.Rows {
		total += n
	}

	return total
}

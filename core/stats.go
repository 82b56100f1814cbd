package core

import (
	"time"
)

// WorkflowStatistics are read-only aggregations over the article store
// and the workflow log. They are computed on demand, uncached, and a
// statistics call never blocks a concurrent log append.
type WorkflowStatistics struct {
	StatusCounts  map[Status]int
	ActionCounts  map[string]int // trailing 30 days
	ActiveAuthors int            // distinct acting principals, trailing 30 days
}

func (c *CoreDB) WorkflowStatistics() (*WorkflowStatistics, error) {

	var cutoff = time.Now().AddDate(0, 0, -30).Unix()

	statusCounts, err := c.CountByStatus()
	if err != nil {
		return nil, err
	}

	actionCounts, err := c.CountActionsSince(cutoff)
	if err != nil {
		return nil, err
	}

	activeAuthors, err := c.CountDistinctActorsSince(cutoff)
	if err != nil {
		return nil, err
	}

	return &WorkflowStatistics{
		StatusCounts:  statusCounts,
		ActionCounts:  actionCounts,
		ActiveAuthors: activeAuthors,
	}, nil
}

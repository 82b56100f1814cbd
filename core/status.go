package core

import (
	"fmt"
	"strings"
)

// Status is the workflow state of an article. There are exactly four
// states, deletion is not a state (drafts can be hard-deleted by their
// author, everything else is soft: Archived is terminal-but-reachable).
type Status int

const (
	Draft     Status = 100
	Review    Status = 200
	Published Status = 300
	Archived  Status = 400
)

func (s Status) String() string {
	switch s {
	case Draft:
		return "draft"
	case Review:
		return "review"
	case Published:
		return "published"
	case Archived:
		return "archived"
	}
	return "unknown"
}

func (s Status) Valid() bool {
	switch s {
	case Draft, Review, Published, Archived:
		return true
	default:
		return false
	}
}

// AllStatuses lists the workflow states in lifecycle order.
func AllStatuses() []Status {
	return []Status{Draft, Review, Published, Archived}
}

func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "draft":
		return Draft, nil
	case "review":
		return Review, nil
	case "published":
		return Published, nil
	case "archived":
		return Archived, nil
	}
	return 0, fmt.Errorf("unknown status: %s", name)
}

// transitionTable holds the allowed target states per current state.
//
// There is no edge from Archived into Published: an archived article must
// re-enter the workflow through Draft or Review before it can be published
// again, so reactivated content is always re-reviewed. Leaving Published
// for Draft is the unpublish move and requires its own capability, see
// authorizedTransition.
var transitionTable = map[Status][]Status{
	Draft:     {Review, Published, Archived},
	Review:    {Draft, Published, Archived},
	Published: {Draft, Archived},
	Archived:  {Draft, Review},
}

// CanTransition is the table-membership test, without any authorization.
func CanTransition(from, to Status) bool {
	for _, t := range transitionTable[from] {
		if t == to {
			return true
		}
	}
	return false
}

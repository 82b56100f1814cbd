package core

import (
	"fmt"

	"github.com/fightwire/fightwire/auth"
)

// A BulkItem is one article's outcome within a batch.
type BulkItem struct {
	ID     int
	Title  string // empty when the article could not be resolved
	Reason string // empty on success
}

// A BulkResult partitions a batch into successes and failures. The batch
// is explicitly not one transaction: items already committed stay
// committed when a later item fails.
type BulkResult struct {
	Successful []BulkItem
	Failed     []BulkItem
}

func (r *BulkResult) SucceededCount() int {
	return len(r.Successful)
}

func (r *BulkResult) FailedCount() int {
	return len(r.Failed)
}

// BulkApprove publishes every given article which is in review. One
// item's failure never aborts the rest; the result tells not-found apart
// from operation-rejected per item.
func (c *CoreDB) BulkApprove(ids []int, actor *auth.Principal, note string) (*BulkResult, error) {
	if actor != nil && !actor.HasCapability(auth.CapBulkPublish) {
		return nil, fmt.Errorf("%w: bulk-publish", ErrForbidden)
	}
	return c.bulk(ids, func(id int) error {
		_, err := c.Approve(id, actor, note)
		return err
	}), nil
}

// BulkArchive archives every given article.
func (c *CoreDB) BulkArchive(ids []int, actor *auth.Principal, note string) (*BulkResult, error) {
	if actor != nil && !actor.HasCapability(auth.CapBulkArchive) {
		return nil, fmt.Errorf("%w: bulk-archive", ErrForbidden)
	}
	return c.bulk(ids, func(id int) error {
		_, err := c.Archive(id, actor, note)
		return err
	}), nil
}

func (c *CoreDB) bulk(ids []int, op func(id int) error) *BulkResult {

	var result = &BulkResult{
		Successful: []BulkItem{},
		Failed:     []BulkItem{},
	}

	for _, id := range ids {

		a, err := c.GetArticle(id)
		if err != nil {
			result.Failed = append(result.Failed, BulkItem{ID: id, Reason: "not found"})
			continue
		}

		if err := op(id); err != nil {
			result.Failed = append(result.Failed, BulkItem{ID: id, Title: a.Title, Reason: err.Error()})
			continue
		}

		result.Successful = append(result.Successful, BulkItem{ID: id, Title: a.Title})
	}

	return result
}

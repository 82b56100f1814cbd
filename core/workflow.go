package core

import (
	"fmt"
	"log"
	"time"

	"github.com/fightwire/fightwire/auth"
)

// TransitionResult reports the outcome of a successful transition.
type TransitionResult struct {
	Status      Status
	PublishedAt int64 // zero unless the article is now published
}

// Transition moves an article to the target status.
//
// The checks and the mutation are evaluated against one snapshot of the
// article: the store's optimistic from-status guard turns a stale read
// into ErrConflict instead of a lost update. On success, the status
// change, its log entries and the affected principals' counter recounts
// are committed as one unit; notifications go out after the commit and
// their failure never rolls it back.
func (c *CoreDB) Transition(articleID int, target Status, actor *auth.Principal, note string, metadata map[string]string) (*TransitionResult, error) {
	return c.transition(articleID, target, actor, note, metadata, nil)
}

func (c *CoreDB) transition(articleID int, target Status, actor *auth.Principal, note string, metadata map[string]string, extra []LogEntry) (*TransitionResult, error) {

	a, err := c.GetArticle(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article %d", ErrNotFound, articleID)
	}

	if !CanTransition(a.Status, target) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, a.Status, target)
	}

	if !c.authorizedTransition(actor, a, target) {
		return nil, fmt.Errorf("%w: %s to %s", ErrForbidden, a.Status, target)
	}

	var spec = &TransitionSpec{
		ArticleID: a.ID,
		From:      a.Status,
		To:        target,
	}

	// PublishedAt is non-zero iff the status is Published. Leaving
	// Published always clears it, entering keeps an existing timestamp.
	if target == Published {
		spec.PublishedAt = a.PublishedAt
		if spec.PublishedAt == 0 {
			spec.PublishedAt = time.Now().Unix()
		}
	}

	var assignedEditor *auth.Principal
	if target == Review && a.EditorID == 0 {
		if assignedEditor = c.pickEditor(); assignedEditor != nil {
			spec.EditorID = assignedEditor.ID
		}
	}

	var actorID int
	if actor != nil {
		actorID = actor.ID
	}
	var now = time.Now().Unix()

	spec.Entries = append(spec.Entries, LogEntry{
		ArticleID:  a.ID,
		ActorID:    actorID,
		Action:     ActionFor(a.Status, target),
		FromStatus: a.Status,
		ToStatus:   target,
		Note:       note,
		Metadata:   metadata,
		Created:    now,
	})
	spec.Entries = append(spec.Entries, extra...)

	spec.Recount = append(spec.Recount, a.AuthorID)
	if a.EditorID != 0 && a.EditorID != a.AuthorID {
		spec.Recount = append(spec.Recount, a.EditorID)
	}
	if spec.EditorID != 0 {
		spec.Recount = append(spec.Recount, spec.EditorID)
	}

	if err := c.ApplyTransition(spec); err != nil {
		return nil, err
	}

	var after = *a
	after.Status = target
	after.PublishedAt = spec.PublishedAt
	if spec.EditorID != 0 {
		after.EditorID = spec.EditorID
	}

	var dispatcher = c.Dispatcher()
	dispatcher.DispatchTransition(&after, a.Status, target, actor)
	if assignedEditor != nil {
		dispatcher.DispatchAssignment(&after, assignedEditor, nil) // auto-assigned, nobody to attribute
	}

	return &TransitionResult{Status: target, PublishedAt: spec.PublishedAt}, nil
}

// authorizedTransition checks the per-target capability on top of table
// membership. A nil actor is the system and may do anything, as may
// holders of override-workflow.
func (c *CoreDB) authorizedTransition(actor *auth.Principal, a *Article, target Status) bool {

	if actor == nil {
		return true
	}

	if actor.HasCapability(auth.CapOverrideWorkflow) {
		return true
	}

	switch target {
	case Published:
		return actor.HasCapability(auth.CapPublish)
	case Archived:
		// a draft can also be retired by whoever may edit it, so authors
		// can withdraw their own unsubmitted work
		if a.Status == Draft && MayEdit(actor, a) {
			return true
		}
		return actor.HasCapability(auth.CapArchive)
	case Draft:
		if a.Status == Published {
			return actor.HasCapability(auth.CapUnpublish)
		}
		return MayEdit(actor, a)
	case Review:
		return MayEdit(actor, a)
	}

	return false
}

// MayEdit resolves the "edit" decision procedure: edit-any always wins,
// edit-own counts only for the author of a draft. Once an article has
// left Draft, its author cannot move it anymore.
func MayEdit(actor *auth.Principal, a *Article) bool {
	if actor == nil {
		return true // the system
	}
	if actor.HasCapability(auth.CapEditAny) {
		return true
	}
	if actor.HasCapability(auth.CapEditOwn) && actor.ID == a.AuthorID && a.Status == Draft {
		return true
	}
	return false
}

// pickEditor selects an auto-assignment candidate. The candidate query is
// bounded and any failure degrades to "no editor assigned", never to a
// blocked transition.
func (c *CoreDB) pickEditor() *auth.Principal {
	candidates, err := c.Auth.FilterActiveByRole(auth.RoleEditor, 100)
	if err != nil {
		log.Printf("error listing editor candidates: %v", err)
		return nil
	}
	var picker = c.Picker
	if picker == nil {
		picker = RandomPicker{}
	}
	return picker.PickEditor(candidates)
}

// SubmitForReview moves a draft into review. Anything but a draft is
// rejected before the transition table is consulted.
func (c *CoreDB) SubmitForReview(articleID int, actor *auth.Principal, note string) (*TransitionResult, error) {
	a, err := c.GetArticle(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article %d", ErrNotFound, articleID)
	}
	if a.Status != Draft {
		return nil, fmt.Errorf("%w: only drafts can be submitted for review", ErrInvalidTransition)
	}
	return c.Transition(articleID, Review, actor, note, nil)
}

// Approve publishes an article which is in review.
//
// The move is gated on the publish capability: whoever may publish may
// approve. The separately named approve capability exists in the table
// but is not what this call site checks.
func (c *CoreDB) Approve(articleID int, actor *auth.Principal, note string) (*TransitionResult, error) {
	a, err := c.GetArticle(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article %d", ErrNotFound, articleID)
	}
	if a.Status != Review {
		return nil, fmt.Errorf("%w: only articles in review can be approved", ErrInvalidTransition)
	}
	return c.Transition(articleID, Published, actor, note, nil)
}

// Reject returns an article in review to draft. Besides the transition
// entry, it writes a second, explicit reject entry so the refusal shows
// up in the audit trail under its own action.
func (c *CoreDB) Reject(articleID int, actor *auth.Principal, note string) (*TransitionResult, error) {

	a, err := c.GetArticle(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article %d", ErrNotFound, articleID)
	}
	if a.Status != Review {
		return nil, fmt.Errorf("%w: only articles in review can be rejected", ErrInvalidTransition)
	}

	var actorID int
	if actor != nil {
		actorID = actor.ID
	}

	var extra = []LogEntry{{
		ArticleID:  a.ID,
		ActorID:    actorID,
		Action:     ActionReject,
		FromStatus: Review,
		ToStatus:   Draft,
		Note:       note,
		Created:    time.Now().Unix(),
	}}

	return c.transition(articleID, Draft, actor, note, nil, extra)
}

// Archive retires an article from any state that allows it.
func (c *CoreDB) Archive(articleID int, actor *auth.Principal, note string) (*TransitionResult, error) {
	return c.Transition(articleID, Archived, actor, note, nil)
}

// Unpublish takes a published article back to draft. It clears the
// publication timestamp and requires the unpublish capability; archiving
// is the other, terminal way off the front page.
func (c *CoreDB) Unpublish(articleID int, actor *auth.Principal, note string) (*TransitionResult, error) {
	a, err := c.GetArticle(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article %d", ErrNotFound, articleID)
	}
	if a.Status != Published {
		return nil, fmt.Errorf("%w: only published articles can be unpublished", ErrInvalidTransition)
	}
	return c.Transition(articleID, Draft, actor, note, nil)
}

// AssignEditor replaces the article's editor assignment. It does not go
// through the transition table and changes no status. The new editor must
// be an active principal of at least editor rank; they get an Assignment
// notification, the replaced editor gets nothing.
func (c *CoreDB) AssignEditor(articleID int, editorID int, assigner *auth.Principal, note string) error {

	if assigner != nil && !assigner.HasCapability(auth.CapAssignEditor) {
		return fmt.Errorf("%w: assign-editor", ErrForbidden)
	}

	a, err := c.GetArticle(articleID)
	if err != nil {
		return fmt.Errorf("%w: article %d", ErrNotFound, articleID)
	}

	editor, err := c.Auth.GetPrincipal(editorID)
	if err != nil {
		return fmt.Errorf("%w: principal %d", ErrNotFound, editorID)
	}

	if editor.EffectiveRole() < auth.RoleEditor || !editor.Active {
		return fmt.Errorf("%w: %s is not an active editor", ErrForbidden, editor.Name)
	}

	var assignerID int
	if assigner != nil {
		assignerID = assigner.ID
	}

	var entry = LogEntry{
		ArticleID:  a.ID,
		ActorID:    assignerID,
		Action:     ActionAssignEditor,
		FromStatus: a.Status,
		ToStatus:   a.Status,
		Note:       note,
		Metadata:   map[string]string{"editor": editor.Name},
		Created:    time.Now().Unix(),
	}

	if err := c.SetEditor(a.ID, editor.ID, entry); err != nil {
		return err
	}

	// editing counters are derived caches, recount outside the commit
	if err := c.RecountActivity(editor.ID); err != nil {
		log.Printf("error recounting activity of %s: %v", editor.Name, err)
	}
	if a.EditorID != 0 && a.EditorID != editor.ID {
		if err := c.RecountActivity(a.EditorID); err != nil {
			log.Printf("error recounting activity of principal %d: %v", a.EditorID, err)
		}
	}

	a.EditorID = editor.ID
	c.Dispatcher().DispatchAssignment(a, editor, assigner)

	return nil
}

// CreateArticle inserts a new draft owned by the actor and logs it.
func (c *CoreDB) CreateArticle(a *Article, actor *auth.Principal) error {

	if actor != nil && !actor.HasCapability(auth.CapCreate) {
		return fmt.Errorf("%w: create", ErrForbidden)
	}

	a.Status = Draft
	a.PublishedAt = 0
	if actor != nil {
		a.AuthorID = actor.ID
	}

	if err := c.InsertArticle(a); err != nil {
		return err
	}

	var actorID int
	if actor != nil {
		actorID = actor.ID
	}

	if err := c.AppendLog(LogEntry{
		ArticleID:  a.ID,
		ActorID:    actorID,
		Action:     ActionCreate,
		FromStatus: Draft,
		ToStatus:   Draft,
		Created:    time.Now().Unix(),
	}); err != nil {
		log.Printf("error logging creation of article %d: %v", a.ID, err)
	}

	if a.AuthorID != 0 {
		if err := c.RecountActivity(a.AuthorID); err != nil {
			log.Printf("error recounting activity of principal %d: %v", a.AuthorID, err)
		}
	}

	return nil
}

// DeleteDraft hard-deletes an article. Only drafts can be deleted, and
// only by their author (or an override-workflow holder); everything else
// has a soft lifecycle through Archived.
func (c *CoreDB) DeleteDraft(articleID int, actor *auth.Principal) error {

	a, err := c.GetArticle(articleID)
	if err != nil {
		return fmt.Errorf("%w: article %d", ErrNotFound, articleID)
	}

	if a.Status != Draft {
		return fmt.Errorf("%w: only drafts can be deleted", ErrInvalidTransition)
	}

	if actor != nil && actor.ID != a.AuthorID && !actor.HasCapability(auth.CapOverrideWorkflow) {
		return fmt.Errorf("%w: not your draft", ErrForbidden)
	}

	if err := c.DeleteArticle(a.ID); err != nil {
		return err
	}

	var actorID int
	if actor != nil {
		actorID = actor.ID
	}

	if err := c.AppendLog(LogEntry{
		ArticleID:  a.ID,
		ActorID:    actorID,
		Action:     ActionDelete,
		FromStatus: Draft,
		ToStatus:   Draft,
		Created:    time.Now().Unix(),
	}); err != nil {
		log.Printf("error logging deletion of article %d: %v", a.ID, err)
	}

	if a.AuthorID != 0 {
		if err := c.RecountActivity(a.AuthorID); err != nil {
			log.Printf("error recounting activity of principal %d: %v", a.AuthorID, err)
		}
	}

	return nil
}

// SetFeatured toggles the front-page flag, outside the status workflow.
func (c *CoreDB) SetFeatured(articleID int, featured bool, actor *auth.Principal) error {
	return c.setFlag(articleID, actor, auth.CapFeature, ActionFeature, func(a *Article) { a.Featured = featured })
}

// SetBreaking toggles the breaking-news flag, outside the status workflow.
func (c *CoreDB) SetBreaking(articleID int, breaking bool, actor *auth.Principal) error {
	return c.setFlag(articleID, actor, auth.CapSetBreaking, ActionSetBreaking, func(a *Article) { a.Breaking = breaking })
}

func (c *CoreDB) setFlag(articleID int, actor *auth.Principal, required auth.Capability, action string, change func(*Article)) error {

	if actor != nil && !actor.HasCapability(required) {
		return fmt.Errorf("%w: %s", ErrForbidden, required)
	}

	a, err := c.GetArticle(articleID)
	if err != nil {
		return fmt.Errorf("%w: article %d", ErrNotFound, articleID)
	}

	change(a)
	if err := c.UpdateMeta(a); err != nil {
		return err
	}

	var actorID int
	if actor != nil {
		actorID = actor.ID
	}

	if err := c.AppendLog(LogEntry{
		ArticleID:  a.ID,
		ActorID:    actorID,
		Action:     action,
		FromStatus: a.Status,
		ToStatus:   a.Status,
		Created:    time.Now().Unix(),
	}); err != nil {
		log.Printf("error logging %s on article %d: %v", action, a.ID, err)
	}

	return nil
}

package core

// Action kinds found in the workflow log.
const (
	ActionCreate       = "create"
	ActionEdit         = "edit" // also the fallback for unmapped transitions
	ActionSubmit       = "submit"
	ActionPublish      = "publish"
	ActionApprove      = "approve"
	ActionReject       = "reject"
	ActionArchive      = "archive"
	ActionUnpublish    = "unpublish"
	ActionReactivate   = "reactivate"
	ActionAssignEditor = "assign_editor"
	ActionDelete       = "delete"
	ActionFeature      = "feature"
	ActionSetBreaking  = "set_breaking"
)

// A LogEntry is an immutable audit record of one workflow action.
// Entries are never updated or deleted; they are the sole history of an
// article (the current editor assignment on the article row is
// replaceable, past assignments live only here).
type LogEntry struct {
	ID         int
	ArticleID  int
	ActorID    int // zero means the system acted
	Action     string
	FromStatus Status
	ToStatus   Status
	Note       string
	Metadata   map[string]string
	Created    int64
}

// System reports whether the entry has no acting principal.
func (e *LogEntry) System() bool {
	return e.ActorID == 0
}

var transitionActions = map[[2]Status]string{
	{Draft, Review}:      ActionSubmit,
	{Draft, Published}:   ActionPublish,
	{Draft, Archived}:    ActionArchive,
	{Review, Draft}:      ActionReject,
	{Review, Published}:  ActionApprove,
	{Review, Archived}:   ActionArchive,
	{Published, Draft}:   ActionUnpublish,
	{Published, Archived}: ActionArchive,
	{Archived, Draft}:    ActionReactivate,
	{Archived, Review}:   ActionReactivate,
}

// ActionFor maps a (from, to) pair to its action kind. Unmapped pairs
// fall back to ActionEdit rather than being dropped.
func ActionFor(from, to Status) string {
	if action, ok := transitionActions[[2]Status{from, to}]; ok {
		return action
	}
	return ActionEdit
}

// A WorkflowLogDB is an append-only ledger. Appends happen through
// TransitionDB so they share the transition's transaction; this interface
// is the read side. Reads never block a concurrent append.
type WorkflowLogDB interface {
	GetLog(limit, offset int) ([]LogEntry, error) // newest first
	GetLogByArticle(articleID int, limit, offset int) ([]LogEntry, error) // chronological
	GetLogByActor(actorID int, limit, offset int) ([]LogEntry, error)
	GetLogByAction(action string, limit, offset int) ([]LogEntry, error)
	CountActionsSince(ts int64) (map[string]int, error)
	CountDistinctActorsSince(ts int64) (int, error)
}

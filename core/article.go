package core

// An Article is a unit of editorial content moving through the workflow.
//
// Status and PublishedAt are owned by the workflow engine: they change
// through Transition only, never through UpdateMeta, so every change is
// logged and notified. PublishedAt is non-zero if and only if the status
// is Published.
type Article struct {
	ID       int
	Title    string
	Body     string // markdown
	Category string
	Tags     string // comma-separated
	AuthorID int    // set once at creation
	EditorID int    // zero when unassigned
	EventID  int    // zero when not tied to an event
	Featured bool
	Breaking bool
	Status   Status
	Created  int64
	Updated  int64
	PublishedAt int64 // unix timestamp, zero unless published
}

type ArticleDB interface {
	CountByStatus() (map[Status]int, error)
	DeleteArticle(id int) error
	GetArticle(id int) (*Article, error)
	GetAllArticles(limit, offset int) ([]Article, error)
	GetArticlesByStatus(status Status, limit, offset int) ([]Article, error)
	GetArticlesByAuthor(authorID int, limit, offset int) ([]Article, error)
	InsertArticle(a *Article) error // sets a.ID, a.Created and a.Updated
	UpdateMeta(a *Article) error    // everything except status, editor and publishedAt
	Writeable() bool
}

// A TransitionSpec is the unit of work of one workflow transition. The
// article columns, the log entries and the activity recounts commit or
// roll back together.
type TransitionSpec struct {
	ArticleID   int
	From        Status
	To          Status
	PublishedAt int64 // zero clears the timestamp
	EditorID    int   // when non-zero, assigned in the same commit
	Entries     []LogEntry
	Recount     []int // principal ids whose counters are recomputed
}

// A TransitionDB applies workflow mutations atomically.
//
// ApplyTransition must guard against stale reads: the article row update
// carries the expected from-status, and a mismatch (a concurrent
// transition won) returns ErrConflict with nothing persisted.
type TransitionDB interface {
	ApplyTransition(spec *TransitionSpec) error
	SetEditor(articleID int, editorID int, entry LogEntry) error // no status change
	AppendLog(entry LogEntry) error
	RecountActivity(principalID int) error
}

package core

import (
	"errors"
	"fmt"

	"github.com/fightwire/fightwire/auth"
)

// memStore implements the store interfaces in memory, with the same
// contracts as the sql implementations: ApplyTransition guards the
// from-status, counters are recomputed from the article table.
type memStore struct {
	articles      map[int]*Article
	nextArticle   int
	log           []LogEntry
	notifications []*Notification
	nextNotif     int
	principals    map[int]*auth.Principal
}

func newMemStore() *memStore {
	return &memStore{
		articles:   make(map[int]*Article),
		principals: make(map[int]*auth.Principal),
	}
}

func newMemCoreDB(store *memStore) *CoreDB {
	return &CoreDB{
		ArticleDB:      store,
		TransitionDB:   store,
		WorkflowLogDB:  store,
		NotificationDB: store,
		Auth:           &auth.AuthDB{PrincipalDB: store},
	}
}

func (s *memStore) addPrincipal(id int, name string, role auth.Role) *auth.Principal {
	var p = &auth.Principal{
		ID:     id,
		Name:   name,
		Role:   role,
		Active: true,
		Prefs:  auth.DefaultPrefs(),
	}
	s.principals[id] = p
	return p
}

func (s *memStore) addArticle(a *Article) *Article {
	s.nextArticle++
	a.ID = s.nextArticle
	s.articles[a.ID] = a
	return a
}

// ArticleDB

func (s *memStore) CountByStatus() (map[Status]int, error) {
	var counts = make(map[Status]int)
	for _, a := range s.articles {
		counts[a.Status]++
	}
	return counts, nil
}

func (s *memStore) DeleteArticle(id int) error {
	delete(s.articles, id)
	return nil
}

func (s *memStore) GetArticle(id int) (*Article, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	var copied = *a
	return &copied, nil
}

func (s *memStore) GetAllArticles(limit, offset int) ([]Article, error) {
	var all = []Article{}
	for _, a := range s.articles {
		all = append(all, *a)
	}
	return all, nil
}

func (s *memStore) GetArticlesByStatus(status Status, limit, offset int) ([]Article, error) {
	var all = []Article{}
	for _, a := range s.articles {
		if a.Status == status {
			all = append(all, *a)
		}
	}
	return all, nil
}

func (s *memStore) GetArticlesByAuthor(authorID int, limit, offset int) ([]Article, error) {
	var all = []Article{}
	for _, a := range s.articles {
		if a.AuthorID == authorID {
			all = append(all, *a)
		}
	}
	return all, nil
}

func (s *memStore) InsertArticle(a *Article) error {
	s.addArticle(a)
	return nil
}

func (s *memStore) UpdateMeta(a *Article) error {
	stored, ok := s.articles[a.ID]
	if !ok {
		return errors.New("no rows")
	}
	stored.Title = a.Title
	stored.Body = a.Body
	stored.Category = a.Category
	stored.Tags = a.Tags
	stored.EventID = a.EventID
	stored.Featured = a.Featured
	stored.Breaking = a.Breaking
	return nil
}

func (s *memStore) Writeable() bool {
	return true
}

// TransitionDB

func (s *memStore) ApplyTransition(spec *TransitionSpec) error {

	a, ok := s.articles[spec.ArticleID]
	if !ok || a.Status != spec.From {
		return fmt.Errorf("%w: article %d is no longer %s", ErrConflict, spec.ArticleID, spec.From)
	}

	a.Status = spec.To
	a.PublishedAt = spec.PublishedAt
	if spec.EditorID != 0 {
		a.EditorID = spec.EditorID
	}

	s.log = append(s.log, spec.Entries...)

	for _, id := range spec.Recount {
		s.RecountActivity(id)
	}

	return nil
}

func (s *memStore) SetEditor(articleID int, editorID int, entry LogEntry) error {
	a, ok := s.articles[articleID]
	if !ok {
		return errors.New("no rows")
	}
	a.EditorID = editorID
	s.log = append(s.log, entry)
	return nil
}

func (s *memStore) AppendLog(entry LogEntry) error {
	s.log = append(s.log, entry)
	return nil
}

func (s *memStore) RecountActivity(principalID int) error {
	p, ok := s.principals[principalID]
	if !ok {
		return nil
	}
	p.ArticlesAuthored = 0
	p.ArticlesEdited = 0
	p.ArticlesPublished = 0
	for _, a := range s.articles {
		if a.AuthorID == principalID {
			p.ArticlesAuthored++
			if a.Status == Published {
				p.ArticlesPublished++
			}
			if a.Created > p.LastArticle {
				p.LastArticle = a.Created
			}
		}
		if a.EditorID == principalID {
			p.ArticlesEdited++
		}
	}
	return nil
}

// WorkflowLogDB

func (s *memStore) GetLog(limit, offset int) ([]LogEntry, error) {
	return s.log, nil
}

func (s *memStore) GetLogByArticle(articleID int, limit, offset int) ([]LogEntry, error) {
	var entries = []LogEntry{}
	for _, e := range s.log {
		if e.ArticleID == articleID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *memStore) GetLogByActor(actorID int, limit, offset int) ([]LogEntry, error) {
	var entries = []LogEntry{}
	for _, e := range s.log {
		if e.ActorID == actorID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *memStore) GetLogByAction(action string, limit, offset int) ([]LogEntry, error) {
	var entries = []LogEntry{}
	for _, e := range s.log {
		if e.Action == action {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *memStore) CountActionsSince(ts int64) (map[string]int, error) {
	var counts = make(map[string]int)
	for _, e := range s.log {
		if e.Created >= ts {
			counts[e.Action]++
		}
	}
	return counts, nil
}

func (s *memStore) CountDistinctActorsSince(ts int64) (int, error) {
	var actors = make(map[int]bool)
	for _, e := range s.log {
		if e.Created >= ts && e.ActorID != 0 {
			actors[e.ActorID] = true
		}
	}
	return len(actors), nil
}

// NotificationDB

func (s *memStore) CountUnread(recipientID int) (int, error) {
	var count int
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && (n.Status == DeliveryPending || n.Status == DeliverySent) {
			count++
		}
	}
	return count, nil
}

func (s *memStore) Dismiss(id int) error {
	for _, n := range s.notifications {
		if n.ID == id {
			n.Status = DeliveryDismissed
		}
	}
	return nil
}

func (s *memStore) GetNotification(id int) (*Notification, error) {
	for _, n := range s.notifications {
		if n.ID == id {
			var copied = *n
			return &copied, nil
		}
	}
	return nil, errors.New("no rows")
}

func (s *memStore) GetNotifications(recipientID int, limit, offset int) ([]Notification, error) {
	var all = []Notification{}
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			all = append(all, *n)
		}
	}
	return all, nil
}

func (s *memStore) InsertNotification(n *Notification) error {
	s.nextNotif++
	n.ID = s.nextNotif
	var copied = *n
	s.notifications = append(s.notifications, &copied)
	return nil
}

func (s *memStore) MarkEmailSent(id int, ts int64) error {
	for _, n := range s.notifications {
		if n.ID == id && !n.EmailSent {
			n.EmailSent = true
			n.EmailSentAt = ts
			if n.Status == DeliveryPending {
				n.Status = DeliverySent
			}
		}
	}
	return nil
}

func (s *memStore) MarkRead(id int, ts int64) error {
	for _, n := range s.notifications {
		if n.ID == id && n.Status != DeliveryDismissed {
			n.Status = DeliveryRead
			n.ReadAt = ts
		}
	}
	return nil
}

// PrincipalDB

func (s *memStore) ChangePassword(p *auth.Principal, old, new string) error {
	return nil
}

func (s *memStore) Delete(p *auth.Principal) error {
	delete(s.principals, p.ID)
	return nil
}

func (s *memStore) GetPrincipal(id int) (*auth.Principal, error) {
	p, ok := s.principals[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	var copied = *p
	return &copied, nil
}

func (s *memStore) GetPrincipalByName(name string) (*auth.Principal, error) {
	for _, p := range s.principals {
		if p.Name == name {
			var copied = *p
			return &copied, nil
		}
	}
	return nil, errors.New("no rows")
}

func (s *memStore) GetAllPrincipals(limit, offset int) ([]auth.Principal, error) {
	var all = []auth.Principal{}
	for _, p := range s.principals {
		all = append(all, *p)
	}
	return all, nil
}

func (s *memStore) FilterActiveByRole(min auth.Role, limit int) ([]auth.Principal, error) {
	var all = []auth.Principal{}
	for _, p := range s.principals {
		if p.Active && p.Role >= min {
			all = append(all, *p)
		}
	}
	return all, nil
}

func (s *memStore) InsertPrincipal(name string) (*auth.Principal, error) {
	var id = len(s.principals) + 1
	return s.addPrincipal(id, name, auth.RoleAuthor), nil
}

func (s *memStore) LoginPrincipal(name, password string) (*auth.Principal, error) {
	return s.GetPrincipalByName(name)
}

func (s *memStore) SetActive(p *auth.Principal, active bool) error {
	if stored, ok := s.principals[p.ID]; ok {
		stored.Active = active
	}
	p.Active = active
	return nil
}

func (s *memStore) SetPassword(p *auth.Principal, password string) error {
	return nil
}

func (s *memStore) SetPrefs(p *auth.Principal, prefs auth.NotificationPrefs) error {
	if stored, ok := s.principals[p.ID]; ok {
		stored.Prefs = prefs
	}
	p.Prefs = prefs
	return nil
}

func (s *memStore) SetRole(p *auth.Principal, role auth.Role) error {
	if !role.Valid() || role == auth.RoleNone {
		return auth.ErrInvalidRole
	}
	if stored, ok := s.principals[p.ID]; ok {
		stored.Role = role
	}
	p.Role = role
	return nil
}

// failMailer always fails delivery.
type failMailer struct{}

func (failMailer) Send(to, subject, body string) error {
	return errors.New("smtp is down")
}

// recordingMailer records successful deliveries.
type recordingMailer struct {
	sent []string // recipient addresses
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, to)
	return nil
}

package core

// A Fighter is a structured roster record. Ranking-score arithmetic is
// not modeled here, the record carries the raw tallies only.
type Fighter struct {
	ID          int
	OrgID       int
	Name        string
	Nickname    string
	WeightClass string
	Wins        int
	Losses      int
	Draws       int
}

type FighterDB interface {
	DeleteFighter(id int) error
	GetFighter(id int) (*Fighter, error)
	GetAllFighters(limit, offset int) ([]Fighter, error)
	GetFightersByOrg(orgID int, limit, offset int) ([]Fighter, error)
	InsertFighter(f *Fighter) error // sets f.ID
	UpdateFighter(f *Fighter) error
}

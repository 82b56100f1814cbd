package core

import (
	"math/rand"

	"github.com/fightwire/fightwire/auth"
)

// An EditorPicker chooses which editor to auto-assign when an article
// enters review unassigned. It is pluggable so deterministic tests can
// inject a fixed choice; returning nil means the article proceeds
// unassigned, a picker must never block the transition.
type EditorPicker interface {
	PickEditor(candidates []auth.Principal) *auth.Principal
}

// RandomPicker picks an unweighted random candidate.
type RandomPicker struct{}

func (RandomPicker) PickEditor(candidates []auth.Principal) *auth.Principal {
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[rand.Intn(len(candidates))]
}

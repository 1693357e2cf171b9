package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rhasspy-grammar/grammarfst/core/fst"
	"github.com/rhasspy-grammar/grammarfst/core/passes"
)

func TestPruneRemovesDeadBranches(t *testing.T) {
	f := fst.New()
	alive := f.NextEdge(f.Start, "turn", "", nil)
	f.Accept(alive)
	dead := f.NextEdge(f.Start, "dangling", "", nil)
	_ = dead

	passes.Prune(f)

	for _, s := range f.States() {
		if s == f.Start || s == alive {
			continue
		}
		t.Errorf("unexpected surviving state %d", s)
	}
}

func TestPrunePanicsIfSpaceArcSurvives(t *testing.T) {
	// Prune only removes dead states; a <space> arc reachable from a live
	// state is a programmer error (RemoveSpaces should always run first),
	// and the postcondition check catches it rather than silently shipping
	// a grammar the downstream language model can't consume.
	f := fst.New()
	s1 := f.NextEdge(f.Start, fst.Space, fst.Space, nil)
	f.Accept(s1)

	assert.Panics(t, func() {
		passes.Prune(f)
	})
}

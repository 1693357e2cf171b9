package passes

import (
	"github.com/rhasspy-grammar/grammarfst/core/fst"
	"github.com/rhasspy-grammar/grammarfst/core/invariant"
)

// Prune removes dead states and arcs from f in place, then checks the
// postcondition spec.md §8 testable property 3 depends on: a fully
// processed FST (space-removed and pruned) never carries a <space> input
// label. f is expected to already have passed through RemoveSpaces.
func Prune(f *fst.FST) {
	f.Prune()
	for _, s := range f.States() {
		for _, a := range f.Arcs(s) {
			invariant.Postcondition(a.In != fst.Space, "passes: pruned FST still has a <space> arc from state %d", s)
		}
	}
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDAllocator_BaseForms(t *testing.T) {
	a := NewIDAllocator()

	assert.Equal(t, "src/a.ts::f", a.Assign("src/a.ts", "", "f", 1))
	assert.Equal(t, "src/a.ts::C", a.Assign("src/a.ts", "", "C", 3))
	assert.Equal(t, "src/a.ts::C.g", a.Assign("src/a.ts", "C", "g", 5))
}

// The collision rule is asymmetric on purpose: the first use of a name
// keeps the base ID even though a later collision appears, so IDs stay
// stable across runs.
func TestIDAllocator_CollisionSuffixOnSecondUseOnly(t *testing.T) {
	a := NewIDAllocator()

	first := a.Assign("src/a.ts", "", "f", 1)
	second := a.Assign("src/a.ts", "C", "f", 5)

	assert.Equal(t, "src/a.ts::f", first)
	assert.Equal(t, "src/a.ts::C.f:L5", second)
}

func TestIDAllocator_RepeatedCollisionsStayUnique(t *testing.T) {
	a := NewIDAllocator()

	ids := map[string]bool{}
	ids[a.Assign("m.py", "", "run", 1)] = true
	ids[a.Assign("m.py", "A", "run", 10)] = true
	ids[a.Assign("m.py", "B", "run", 20)] = true
	ids[a.Assign("m.py", "B", "run", 20)] = true

	assert.Len(t, ids, 4, "every assignment must produce a distinct ID")
}

func TestFinalize_ReservedFieldsEmpty(t *testing.T) {
	symbols := Finalize("a.go", []RawSymbol{
		{Name: "X", Kind: KindFunction, Visibility: VisExport, Line: 1},
	}, NewIDAllocator())

	assert.NotNil(t, symbols[0].TopCallers)
	assert.Empty(t, symbols[0].TopCallers)
	assert.NotNil(t, symbols[0].TopCallees)
	assert.NotNil(t, symbols[0].Tags)
}

package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileDropsStaleFile(t *testing.T) {
	f := Forest{dir("Math", file("1", "A"))}
	got := Reconcile(nil, f)
	assert.Equal(t, []string{"Math[]"}, shape(got))
	assert.Equal(t, []string{"Math[1]"}, shape(f), "input is not mutated")
}

func TestReconcileAddsNewFileAtRoot(t *testing.T) {
	got := Reconcile([]QuizRecord{rec("5", "Algebra")}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, KindFile, got[0].Kind)
	assert.Equal(t, "Algebra", got[0].Name)
	assert.Equal(t, "5", got[0].EntryID)
}

func TestReconcileKeepsFolderPlacementAndOrder(t *testing.T) {
	f := Forest{
		file("3", "C"),
		dir("Math", file("1", "A"), file("9", "stale"), file("2", "B")),
		dir("Empty"),
		file("4", "D"),
	}
	quizzes := []QuizRecord{rec("4", "D"), rec("7", "new-1"), rec("1", "A"), rec("2", "B"), rec("3", "C"), rec("8", "new-2")}

	got := Reconcile(quizzes, f)
	assert.Equal(t, []string{"3", "Math[1,2]", "Empty[]", "4", "7", "8"}, shape(got))
}

func TestReconcileRefreshesExistingEntries(t *testing.T) {
	f := Forest{dir("Math", file("1", "Old name"))}
	r := rec("1", "New name", "geometry", "algebra")
	r.UpdatedAt = t1

	got := Reconcile([]QuizRecord{r}, f)
	n := got[0].Children[0]
	assert.Equal(t, "New name", n.Name)
	assert.Equal(t, []string{"algebra", "geometry"}, n.Topics)
	assert.Equal(t, t1, n.UpdatedAt)
	assert.Equal(t, t0, n.CreatedAt)
}

func TestReconcileSkipsMalformedRecords(t *testing.T) {
	quizzes := []QuizRecord{
		{ID: "", Name: "no id"},
		{ID: "1", Name: ""},
		rec("2", "ok"),
		rec("2", "duplicate record"),
	}
	got := Reconcile(quizzes, Forest{file("1", "was here")})
	assert.Equal(t, []string{"2"}, shape(got))
	assert.Equal(t, "ok", got[0].Name)
}

func TestReconcileSkipsMalformedNodes(t *testing.T) {
	f := Forest{nil, &Node{Kind: KindFile, Name: "no id"}, &Node{Name: "no kind"}, dir("A", nil, file("1", "one"))}
	got := Reconcile([]QuizRecord{rec("1", "one")}, f)
	assert.Equal(t, []string{"A[1]"}, shape(got))
}

func TestReconcileDropsDuplicateEntries(t *testing.T) {
	f := Forest{dir("A", file("1", "one")), file("1", "one again")}
	got := Reconcile([]QuizRecord{rec("1", "one")}, f)
	assert.Equal(t, []string{"A[1]"}, shape(got))
	requireSimpleForest(t, got)
}

func TestReconcileIdempotent(t *testing.T) {
	forests := map[string]Forest{
		"empty":  nil,
		"flat":   {file("1", "A"), file("2", "B")},
		"nested": {dir("X", dir("Y", file("2", "B")), file("9", "stale")), file("1", "A")},
		"broken": {nil, dir("Z", nil), &Node{Kind: KindFile}},
	}
	quizzes := []QuizRecord{rec("1", "A"), rec("2", "B"), rec("3", "C", "t")}

	for name, f := range forests {
		t.Run(name, func(t *testing.T) {
			once := Reconcile(quizzes, f)
			twice := Reconcile(quizzes, once)
			assert.Equal(t, once, twice)
		})
	}
}

func TestReconcileOrderStable(t *testing.T) {
	f := Forest{file("4", "D"), dir("M", file("2", "B"), file("1", "A")), file("3", "C")}
	// superset of the ids in f, listed in a different order
	quizzes := []QuizRecord{rec("1", "A"), rec("2", "B"), rec("3", "C"), rec("4", "D"), rec("5", "E")}

	got := Reconcile(quizzes, f)
	assert.Equal(t, []string{"4", "M[2,1]", "3", "5"}, shape(got))
	assert.Equal(t, []string{"4", "2", "1", "3", "5"}, EntryIDs(got))
}

package vfs

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveFileToFolder(t *testing.T) {
	f := Forest{file("1", "A"), dir("Math")}
	res := Move(f, "1", "Math")
	require.NoError(t, res.Err)
	assert.Equal(t, CategoryFileToFolder, res.Category)
	assert.Equal(t, []string{"Math[1]"}, shape(res.Forest))
	assert.Equal(t, []string{"Math"}, res.Reopen)
	assert.Equal(t, []string{"1", "Math[]"}, shape(f), "input is not mutated")
}

func TestMoveReorderWithinRoot(t *testing.T) {
	res := Move(Forest{file("1", "A"), file("2", "B")}, "1", "2")
	require.NoError(t, res.Err)
	assert.Equal(t, CategoryFileToFile, res.Category)
	assert.Equal(t, []string{"2", "1"}, shape(res.Forest))
}

func TestMoveFolderToRoot(t *testing.T) {
	res := Move(Forest{dir("A", dir("B"))}, "B", RootSentinel)
	require.NoError(t, res.Err)
	assert.Equal(t, CategoryFolderToFolder, res.Category)
	assert.Equal(t, []string{"A[]", "B[]"}, shape(res.Forest))
}

func TestMoveCases(t *testing.T) {
	tests := []struct {
		name     string
		forest   func() Forest
		dragged  string
		target   string
		want     []string
		category Category
	}{
		{
			name:     "file out of folder to root",
			forest:   func() Forest { return Forest{dir("M", file("1", "A")), file("2", "B")} },
			dragged:  "1",
			target:   RootSentinel,
			want:     []string{"M[]", "2", "1"},
			category: CategoryFileToFolder,
		},
		{
			name:     "file between folders",
			forest:   func() Forest { return Forest{dir("M", file("1", "A")), dir("N", file("2", "B"))} },
			dragged:  "1",
			target:   "N",
			want:     []string{"M[]", "N[2,1]"},
			category: CategoryFileToFolder,
		},
		{
			name:     "reorder upwards inside folder",
			forest:   func() Forest { return Forest{dir("M", file("1", "A"), file("2", "B"), file("3", "C"))} },
			dragged:  "3",
			target:   "1",
			want:     []string{"M[3,1,2]"},
			category: CategoryFileToFile,
		},
		{
			name:     "reorder downwards inside folder",
			forest:   func() Forest { return Forest{dir("M", file("1", "A"), file("2", "B"), file("3", "C"))} },
			dragged:  "1",
			target:   "3",
			want:     []string{"M[2,3,1]"},
			category: CategoryFileToFile,
		},
		{
			name:     "file onto file in other folder appends there",
			forest:   func() Forest { return Forest{file("1", "A"), dir("M", file("2", "B"), file("3", "C"))} },
			dragged:  "1",
			target:   "2",
			want:     []string{"M[2,3,1]"},
			category: CategoryFileToFile,
		},
		{
			name:     "file onto root file from folder",
			forest:   func() Forest { return Forest{dir("M", file("1", "A")), file("2", "B")} },
			dragged:  "1",
			target:   "2",
			want:     []string{"M[]", "2", "1"},
			category: CategoryFileToFile,
		},
		{
			name:     "folder into folder",
			forest:   func() Forest { return Forest{dir("A", file("1", "x")), dir("B")} },
			dragged:  "A",
			target:   "B",
			want:     []string{"B[A[1]]"},
			category: CategoryFolderToFolder,
		},
		{
			name:     "nested folder into sibling",
			forest:   func() Forest { return Forest{dir("P", dir("A"), dir("B"))} },
			dragged:  "A",
			target:   "B",
			want:     []string{"P[B[A[]]]"},
			category: CategoryFolderToFolder,
		},
		{
			name:     "folder and file swap at root",
			forest:   func() Forest { return Forest{dir("A"), file("1", "x"), file("2", "y")} },
			dragged:  "A",
			target:   "2",
			want:     []string{"2", "1", "A[]"},
			category: CategoryFolderToFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.forest()
			res := Move(f, tt.dragged, tt.target)
			require.NoError(t, res.Err)
			assert.True(t, res.Moved())
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.want, shape(res.Forest))
			assert.Equal(t, CountNodes(f), CountNodes(res.Forest))
			requireSimpleForest(t, res.Forest)
		})
	}
}

func TestMoveGuards(t *testing.T) {
	base := func() Forest {
		return Forest{
			dir("A", dir("B", dir("C")), file("1", "x")),
			dir("D", file("2", "y")),
			file("3", "z"),
		}
	}

	tests := []struct {
		name    string
		dragged string
		target  string
		err     error
	}{
		{"self move", "1", "1", ErrSelfMove},
		{"dangling target", "1", "ffffffffffffffffffffffff", ErrTargetNotFound},
		{"dangling folder target", "1", "Nope", ErrTargetNotFound},
		{"dangling dragged", "nope", "A", ErrDraggedNotFound},
		{"empty dragged", "", "A", ErrDraggedNotFound},
		{"root as dragged", RootSentinel, "A", ErrDraggedNotFound},
		{"folder into its child", "A", "B", ErrCycle},
		{"folder into its grandchild", "A", "C", ErrCycle},
		{"folder into parent it already has", "C", "B", ErrNoChange},
		{"root folder to root", "D", RootSentinel, ErrNoChange},
		{"root file to root", "3", RootSentinel, ErrNoChange},
		{"file into its own folder", "2", "D", ErrNoChange},
		{"folder onto nested file", "D", "1", ErrUnsupportedMove},
		{"nested folder onto root file", "C", "3", ErrUnsupportedMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base()
			res := Move(f, tt.dragged, tt.target)
			require.Error(t, res.Err)
			assert.ErrorIs(t, res.Err, tt.err)
			assert.ErrorIs(t, res.Err, ErrInvalidMove)
			assert.False(t, res.Moved())
			assert.Nil(t, res.Reopen)
			assert.Equal(t, shape(f), shape(res.Forest))
		})
	}
}

func TestMoveRejectsSiblingNameClash(t *testing.T) {
	// The root "B" is found before the nested one and cannot join A, which
	// already holds a "B".
	f := Forest{dir("A", dir("B")), dir("B", file("1", "x"))}
	res := Move(f, "B", "A")
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, ErrDuplicateName)
	assert.ErrorIs(t, res.Err, ErrInvalidMove)
	assert.Equal(t, shape(f), shape(res.Forest))
}

func TestMoveReopen(t *testing.T) {
	f := Forest{
		openDir("Open", file("1", "x")),
		dir("Closed", dir("Inner")),
		file("2", "y"),
	}

	res := Move(f, "2", "Inner")
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"Open", "Closed", "Inner"}, res.Reopen)

	res = Move(f, "2", "1")
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"Open"}, res.Reopen)

	res = Move(f, "Closed", RootSentinel)
	require.ErrorIs(t, res.Err, ErrNoChange)
	assert.Nil(t, res.Reopen)

	applied := ApplyReopen(f, []string{"Closed", "Inner"})
	assert.True(t, applied[1].IsOpen)
	assert.True(t, applied[1].Children[0].IsOpen)
	assert.False(t, f[1].IsOpen, "input is not mutated")
}

func TestMoveClassifiesByLookupBeforeFormat(t *testing.T) {
	// A folder whose name looks like a quiz id is still a folder.
	hexName := "0123456789abcdef01234567"
	f := Forest{file("1", "x"), dir(hexName)}
	res := Move(f, "1", hexName)
	require.NoError(t, res.Err)
	assert.Equal(t, CategoryFileToFolder, res.Category)
	assert.Equal(t, []string{hexName + "[1]"}, shape(res.Forest))
}

func TestRandomMovesKeepForestSimple(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	f := Forest{
		dir("A", dir("B", file("1", "a"), dir("C")), file("2", "b")),
		dir("D"),
		file("3", "c"),
		dir("E", file("4", "d"), dir("F", dir("G", file("5", "e")))),
		file("6", "f"),
	}
	keys := []string{"A", "B", "C", "D", "E", "F", "G", "1", "2", "3", "4", "5", "6", RootSentinel, "missing"}
	total := CountNodes(f)

	for i := 0; i < 2000; i++ {
		d, tg := keys[rng.Intn(len(keys))], keys[rng.Intn(len(keys))]
		res := Move(f, d, tg)
		if res.Err != nil && !errors.Is(res.Err, ErrInvalidMove) {
			t.Fatalf("step %d: unexpected error %v", i, res.Err)
		}
		require.Equal(t, total, CountNodes(res.Forest), fmt.Sprintf("step %d: %s -> %s", i, d, tg))
		requireSimpleForest(t, res.Forest)
		f = res.Forest
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "file_to_folder", CategoryFileToFolder.String())
	assert.Equal(t, "file_to_file", CategoryFileToFile.String())
	assert.Equal(t, "folder_to_folder", CategoryFolderToFolder.String())
	assert.Equal(t, "folder_to_file", CategoryFolderToFile.String())
	assert.Equal(t, "unknown", CategoryUnknown.String())
}

func TestMoveRefusesRootKeyClash(t *testing.T) {
	// A folder and a file sharing a key can only come from older saved
	// trees; moving either to root must not make them collide.
	tests := []struct {
		name            string
		forest          Forest
		dragged, target string
	}{
		{"file to root", Forest{dir("B"), dir("A", file("B", "x"))}, "B", RootSentinel},
		{"file beside root file", Forest{dir("B"), file("1", "y"), dir("A", file("B", "x"))}, "B", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Move(tt.forest, tt.dragged, tt.target)
			assert.ErrorIs(t, res.Err, ErrInvalidMove)
			assert.ErrorIs(t, res.Err, ErrDuplicateName)
			assert.Equal(t, shape(tt.forest), shape(res.Forest))
		})
	}

	res := Move(Forest{file("C", "x"), dir("A", dir("C"))}, "A", RootSentinel)
	assert.ErrorIs(t, res.Err, ErrNoChange, "A is already at root")
}

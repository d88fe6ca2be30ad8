package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFile(t *testing.T) {
	nested := file("2", "two")
	inner := dir("Inner", nested)
	root := file("1", "one")
	f := Forest{nil, dir("Outer", inner), root, &Node{Kind: KindFile, Name: "broken"}}

	loc := FindFile(f, "1")
	require.True(t, loc.Found())
	assert.Same(t, root, loc.Node)
	assert.Nil(t, loc.Parent, "root-level file has no parent")

	loc = FindFile(f, "2")
	require.True(t, loc.Found())
	assert.Same(t, nested, loc.Node)
	assert.Same(t, inner, loc.Parent)

	assert.False(t, FindFile(f, "missing").Found())
	assert.False(t, FindFile(f, "").Found())
	assert.False(t, FindFile(nil, "1").Found())
}

func TestFindFolderPrefersShallowMatch(t *testing.T) {
	deep := dir("Shared")
	shallow := dir("Shared")
	f := Forest{dir("A", deep), shallow}

	loc := FindFolder(f, "Shared")
	require.True(t, loc.Found())
	assert.Same(t, shallow, loc.Node, "a root match wins over a nested match in an earlier sibling")
	assert.Nil(t, loc.Parent)
}

func TestFindFolderDepthFirstAcrossSiblings(t *testing.T) {
	first := dir("X")
	second := dir("X")
	a := dir("A", dir("Deeper", first))
	b := dir("B", second)
	f := Forest{a, b}

	loc := FindFolder(f, "X")
	require.True(t, loc.Found())
	assert.Same(t, first, loc.Node, "left subtree is searched completely before the right one")
	assert.Equal(t, "Deeper", loc.Parent.Name)
}

func TestFindFolderIgnoresFiles(t *testing.T) {
	f := Forest{file("Math", "Math"), dir("Math")}
	loc := FindFolder(f, "Math")
	require.True(t, loc.Found())
	assert.True(t, loc.Node.IsDirectory())
	assert.False(t, FindFolder(f, "").Found())
}

func TestFolderPath(t *testing.T) {
	f := Forest{dir("A", dir("B", dir("C"))), dir("D")}
	assert.Equal(t, []string{"A", "B", "C"}, FolderPath(f, "C"))
	assert.Equal(t, []string{"D"}, FolderPath(f, "D"))
	assert.Nil(t, FolderPath(f, "Z"))
	assert.Nil(t, FolderPath(f, ""))
}

func TestIsDescendant(t *testing.T) {
	c := dir("C")
	b := dir("B", c)
	a := dir("A", b)
	other := dir("Other")

	assert.True(t, IsDescendant(a, b))
	assert.True(t, IsDescendant(a, c))
	assert.False(t, IsDescendant(c, a))
	assert.False(t, IsDescendant(a, a))
	assert.False(t, IsDescendant(a, other))
	assert.False(t, IsDescendant(nil, a))
	assert.False(t, IsDescendant(file("1", "one"), a))
}

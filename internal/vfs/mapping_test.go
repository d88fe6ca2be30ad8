package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingRoundTrip(t *testing.T) {
	m := SerializedForest{
		"Math": dir("Math", file("1", "A"), dir("Algebra", file("2", "B"))),
		"3":    NewFile("C", "3", []string{"x", "y"}, t0, t1),
		"Empty": func() *Node {
			d := NewDirectory("Empty")
			d.IsOpen = true
			return d
		}(),
	}

	assert.Equal(t, m, ToMapping(FromMapping(m)))
}

func TestFromMappingSortsKeys(t *testing.T) {
	m := SerializedForest{"b": dir("b"), "a": dir("a"), "skip": nil}
	assert.Equal(t, []string{"a[]", "b[]"}, shape(FromMapping(m)))
}

func TestSnapshotKeepsRootOrder(t *testing.T) {
	f := Forest{file("9", "Z"), dir("B", file("1", "A")), dir("A"), nil}

	s := NewSnapshot(f)
	assert.Equal(t, []string{"9", "B", "A"}, s.Order)
	assert.Equal(t, []string{"9", "B[1]", "A[]"}, shape(s.Forest()))
}

func TestSnapshotForestAppendsUnorderedKeys(t *testing.T) {
	s := Snapshot{
		Order: []string{"C", "missing", "C"},
		Nodes: SerializedForest{"A": dir("A"), "B": dir("B"), "C": dir("C")},
	}
	assert.Equal(t, []string{"C[]", "A[]", "B[]"}, shape(s.Forest()))
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	f := Forest{
		dir("Math", NewFile("Algebra", "65f1c0a2b3d4e5f60718293a", []string{"math"}, t0, t1)),
		openDir("Empty"),
		file("2", "B"),
	}

	data, err := EncodeSnapshot(NewSnapshot(f))
	require.NoError(t, err)

	s, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, f, s.Forest())
}

func TestDecodeStructuralNodes(t *testing.T) {
	data := []byte(`{
		"order": ["Math", "5"],
		"nodes": {
			"Math": {"name": "Math", "isOpen": true, "children": [
				{"name": "Algebra", "entryId": "1", "topics": ["b", "a"]},
				null,
				{"name": "Sub", "children": []}
			]},
			"5": {"name": "Geometry", "entryId": "5", "createdAt": "2024-03-01T09:00:00Z"}
		}
	}`)

	s, err := DecodeSnapshot(data)
	require.NoError(t, err)
	f := s.Forest()
	assert.Equal(t, []string{"Math[1,<nil>,Sub[]]", "5"}, shape(f))

	math := f[0]
	assert.True(t, math.IsDirectory())
	assert.True(t, math.IsOpen)
	assert.Equal(t, []string{"a", "b"}, math.Children[0].Topics)
	assert.True(t, math.Children[2].IsDirectory())
	assert.Equal(t, t0, f[1].CreatedAt)
}

func TestDecodeKindOverridesShape(t *testing.T) {
	data := []byte(`{"order":["x"],"nodes":{"x":{"kind":"directory","name":"x"}}}`)
	s, err := DecodeSnapshot(data)
	require.NoError(t, err)
	require.Contains(t, s.Nodes, "x")
	assert.True(t, s.Nodes["x"].IsDirectory())
	assert.NotNil(t, s.Nodes["x"].Children)
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"nodes": [`))
	assert.Error(t, err)
}

func TestEncodeEmptySnapshot(t *testing.T) {
	data, err := EncodeSnapshot(Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"order":[],"nodes":{}}`, string(data))
}

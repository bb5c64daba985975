package uitree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenElements(t *testing.T) {
	tree := sampleTree()
	AssignIDs(tree)

	flat := FlattenElements(tree)

	require.Len(t, flat, 6)
	assert.Equal(t, FlatElement{ID: 1, Role: RoleWindow, Title: "Setup", Enabled: true, Path: "window"}, flat[0])
	assert.Equal(t, "window > btn", flat[1].Path)
	assert.Equal(t, "Close window", flat[2].Label())
	assert.False(t, flat[2].Enabled)
	assert.Equal(t, "window > list > row", flat[5].Path)
	assert.True(t, flat[5].Offscreen)
}

func TestFlattenElements_Empty(t *testing.T) {
	assert.Empty(t, FlattenElements(nil))
}

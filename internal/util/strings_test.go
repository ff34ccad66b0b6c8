package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldName(t *testing.T) {
	assert.Equal(t, FoldName("Col 285 Sector"), FoldName("COL 285 SECTOR"))
	assert.Equal(t, FoldName("wregoe"), FoldName(" Wregoe "))
	assert.NotEqual(t, FoldName("Wregoe"), FoldName("Wregoe A"))
	assert.Equal(t, FoldName("STRASSE"), FoldName("straße"))
}

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	assert.Equal(t, "Mod id", T("project.creation.mod_id"))
	assert.Equal(t, "Parchment", T("parchment"))
	assert.Equal(t, "project.creation.unknown", T("project.creation.unknown"))
	assert.True(t, Known("project.creation.git.title"))
	assert.False(t, Known("nope"))
}

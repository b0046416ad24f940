package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublicID(t *testing.T) {
	for i := 0; i < 50; i++ {
		id, err := NewPublicID()
		require.NoError(t, err)
		assert.Regexp(t, `^noder-\d{5}-\d{4}$`, id)
		assert.True(t, ValidPublicID(id))
	}
}

func TestValidPublicID(t *testing.T) {
	assert.True(t, ValidPublicID("noder-10001-0001"))
	for _, bad := range []string{"", "noder-1-2", "archfind-12345-6789", "noder-12345-6789 ", "noder-12345-67890"} {
		assert.False(t, ValidPublicID(bad), bad)
	}
}

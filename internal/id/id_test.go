package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate(PrefixEntry)
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	id, err := Generate(PrefixUser)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "usr-"))
	// Default NanoID is 21 characters plus "usr-".
	assert.Len(t, id, len("usr-")+21)
}

func TestHasPrefix(t *testing.T) {
	id := MustGenerate(PrefixEntry)

	assert.True(t, HasPrefix(id, PrefixEntry))
	assert.False(t, HasPrefix(id, PrefixUser))
	assert.False(t, HasPrefix("jrnX", PrefixEntry))
}

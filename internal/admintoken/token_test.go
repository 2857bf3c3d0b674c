package admintoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("super-secret")
	require.NoError(t, err)
	assert.True(t, Verify("super-secret", encoded))
	assert.False(t, Verify("wrong", encoded))
}

func TestVerify_MalformedDigest(t *testing.T) {
	assert.False(t, Verify("anything", ""))
	assert.False(t, Verify("anything", "$argon2id$v=19$m=65536,t=1,p=4$salt"))
	assert.False(t, Verify("anything", "$bcrypt$v=19$m=65536,t=1,p=4$a$b"))
}

func TestHash_UniqueSalt(t *testing.T) {
	a, err := Hash("same")
	require.NoError(t, err)
	b, err := Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, Verify("same", a))
	assert.True(t, Verify("same", b))
}

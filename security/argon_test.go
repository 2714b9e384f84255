package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonHashAndVerify(t *testing.T) {
	a := NewArgon()

	encoded, err := a.Hash("hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := a.Verify("hunter2", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Verify("hunter3", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgonHashesAreSalted(t *testing.T) {
	a := NewArgon()

	one, err := a.Hash("same password")
	require.NoError(t, err)
	two, err := a.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, one, two)
}

func TestArgonVerifyMalformedHash(t *testing.T) {
	a := NewArgon()

	_, err := a.Verify("whatever", "not-a-phc-string")
	assert.Error(t, err)
}

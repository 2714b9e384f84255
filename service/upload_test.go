package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFileID(t *testing.T) {
	id := GenerateFileID("My Report (final).pdf")

	// 36 chars of UUID, a dash, then the sanitized base name
	require.Greater(t, len(id), 37)
	_, err := uuid.Parse(id[:36])
	require.NoError(t, err)

	assert.Equal(t, "my-report-final", id[37:])
	assert.NotContains(t, id, ".pdf")
}

func TestGenerateFileIDUnique(t *testing.T) {
	a := GenerateFileID("same.txt")
	b := GenerateFileID("same.txt")
	assert.NotEqual(t, a, b)
}

func TestGenerateFileIDUnsanitizableName(t *testing.T) {
	id := GenerateFileID("....")

	// Falls back to the bare UUID when nothing survives sanitization
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.False(t, strings.Contains(id, "--"))
}

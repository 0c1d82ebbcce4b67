package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blankbase/blankbase/pkg/errors"
)

func TestNewMemberValidation(t *testing.T) {
	m, err := NewMember("  Alice Chen ", "Alice@Example.COM", 34)
	require.NoError(t, err)
	assert.Equal(t, "Alice Chen", m.Name(), "name is trimmed")
	assert.Equal(t, "alice@example.com", m.Email(), "email is lowercased")
	assert.True(t, m.IsActive())
	assert.NotZero(t, m.ID())
	assert.False(t, m.CreatedAt().IsZero())

	_, err = NewMember("", "a@b.com", 30)
	assert.True(t, errors.IsCode(err, errors.CodeValidationFailed))

	_, err = NewMember("Bob", "not-an-email", 30)
	assert.True(t, errors.IsCode(err, errors.CodeValidationFailed))

	_, err = NewMember("Bob", "b@c.com", 200)
	assert.True(t, errors.IsCode(err, errors.CodeValidationFailed))
}

func TestMemberStateChanges(t *testing.T) {
	m, err := NewMember("Alice", "a@b.com", 30)
	require.NoError(t, err)

	m.Deactivate()
	assert.False(t, m.IsActive())
	m.Activate()
	assert.True(t, m.IsActive())

	require.NoError(t, m.Rename("Alicia"))
	assert.Equal(t, "Alicia", m.Name())
	assert.Error(t, m.Rename("   "))
}

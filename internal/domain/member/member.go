// Package member holds the sample Member entity the scaffold's list
// pages and API are built around.
package member

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blankbase/blankbase/pkg/errors"
)

// Member is a directory entry. Fields are private; state changes go
// through methods so invariants hold from construction on.
type Member struct {
	id        uuid.UUID
	name      string
	email     string
	age       int
	isActive  bool
	createdAt time.Time
}

// NewMember validates and creates an active member.
func NewMember(name, email string, age int) (*Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.CodeValidationFailed, "member name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, errors.New(errors.CodeValidationFailed, "member email is invalid").
			WithMetadata("email", email)
	}
	if age < 0 || age > 150 {
		return nil, errors.New(errors.CodeValidationFailed, "member age out of range").
			WithMetadata("age", age)
	}
	return &Member{
		id:        uuid.New(),
		name:      name,
		email:     strings.ToLower(email),
		age:       age,
		isActive:  true,
		createdAt: time.Now().UTC(),
	}, nil
}

// Restore rebuilds a member from persisted state. No validation: the
// stored record already passed through NewMember once.
func Restore(id uuid.UUID, name, email string, age int, isActive bool, createdAt time.Time) *Member {
	return &Member{
		id:        id,
		name:      name,
		email:     email,
		age:       age,
		isActive:  isActive,
		createdAt: createdAt,
	}
}

func (m *Member) ID() uuid.UUID        { return m.id }
func (m *Member) Name() string         { return m.name }
func (m *Member) Email() string        { return m.email }
func (m *Member) Age() int             { return m.age }
func (m *Member) IsActive() bool       { return m.isActive }
func (m *Member) CreatedAt() time.Time { return m.createdAt }

// Activate marks the member active.
func (m *Member) Activate() { m.isActive = true }

// Deactivate marks the member inactive.
func (m *Member) Deactivate() { m.isActive = false }

// Rename updates the member's display name.
func (m *Member) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New(errors.CodeValidationFailed, "member name is required")
	}
	m.name = name
	return nil
}

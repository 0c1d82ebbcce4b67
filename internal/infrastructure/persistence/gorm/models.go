package gorm

import (
	"time"

	"github.com/google/uuid"

	"github.com/blankbase/blankbase/internal/domain/member"
)

// MemberModel is the GORM row shape for members.
type MemberModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:200;not null;index"`
	Email     string    `gorm:"size:320;not null;uniqueIndex"`
	Age       int       `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time
}

// TableName pins the table name independent of pluralization settings.
func (MemberModel) TableName() string { return "members" }

// MemberToModel converts a domain member to its row shape.
func MemberToModel(m *member.Member) *MemberModel {
	return &MemberModel{
		ID:        m.ID(),
		Name:      m.Name(),
		Email:     m.Email(),
		Age:       m.Age(),
		IsActive:  m.IsActive(),
		CreatedAt: m.CreatedAt(),
	}
}

// ModelToMember rebuilds the domain entity from a row.
func ModelToMember(row *MemberModel) *member.Member {
	return member.Restore(row.ID, row.Name, row.Email, row.Age, row.IsActive, row.CreatedAt)
}

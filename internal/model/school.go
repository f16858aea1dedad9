package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type School struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:150;uniqueIndex;not null" json:"name"`
	City      *string   `gorm:"size:100" json:"city,omitempty"`
	State     *string   `gorm:"size:50" json:"state,omitempty"`
	LogoURL   *string   `gorm:"type:text" json:"logo_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Students []Student `gorm:"constraint:OnDelete:CASCADE" json:"students,omitempty"`
}

func (s *School) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Student is the athlete profile of a user enrolled in a school.
type Student struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	SchoolID       uuid.UUID `gorm:"type:uuid;index;not null" json:"school_id"`
	FullName       string    `gorm:"size:100;not null" json:"full_name"`
	Sport          string    `gorm:"size:50;not null" json:"sport"`
	GraduationYear *int      `json:"graduation_year,omitempty"`
	Position       *string   `gorm:"size:50" json:"position,omitempty"`
	Bio            *string   `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	School *School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

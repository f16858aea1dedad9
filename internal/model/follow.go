package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow records that a user follows a student.
// The (follower_id, student_id) pair is unique so re-following never duplicates.
type Follow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;index:idx_follow_pair,unique;index:idx_follow_follower" json:"follower_id"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;index:idx_follow_pair,unique;index:idx_follow_student" json:"student_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Follower *User    `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Student  *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

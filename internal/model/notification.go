package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationFollowingPosted = "following_posted"
	NotificationNewFollower     = "new_follower"
	NotificationPostLiked       = "post_liked"
	NotificationPostCommented   = "post_commented"
	NotificationXenFinalized    = "xen_finalized"
	NotificationXenRejected     = "xen_rejected"
)

const (
	EntityPost          = "post"
	EntityUser          = "user"
	EntityXenSubmission = "xen_submission"
)

// Notification tells one recipient that one event happened.
// The dedup index guarantees at most one row per (recipient, type, entity)
// even when a producer is re-run for the same event.
type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_notification_dedup,unique" json:"user_id"` // User who receives the notification
	ActorID    *uuid.UUID `gorm:"type:uuid" json:"actor_id,omitempty"`                                   // User who triggered the notification
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_notification_dedup,unique" json:"entity_id"`
	EntityType string     `gorm:"size:50;not null;index:idx_notification_dedup,unique" json:"entity_type"`
	Type       string     `gorm:"size:50;not null;index:idx_notification_dedup,unique" json:"type"`
	Title      string     `gorm:"size:150" json:"title"`
	Message    string     `gorm:"type:text" json:"message"`
	Metadata   *string    `gorm:"type:text" json:"metadata,omitempty"`
	IsRead     bool       `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Associations - using pointers to avoid recursion if User has Notifications
	User  *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

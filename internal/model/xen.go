package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XEN Watch submission statuses. Transitions are linear:
// pending_payment -> in_review -> finalized | rejected.
const (
	XenStatusPendingPayment = "pending_payment"
	XenStatusInReview       = "in_review"
	XenStatusFinalized      = "finalized"
	XenStatusRejected       = "rejected"
)

type XenSubmission struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"student_id"`
	VideoURL         string     `gorm:"type:text;not null" json:"video_url"`
	Description      string     `gorm:"type:text" json:"description"`
	Status           string     `gorm:"size:30;not null;default:pending_payment;index" json:"status"`
	FeeCents         int        `gorm:"not null" json:"fee_cents"`
	PaymentReference *string    `gorm:"size:255" json:"payment_reference,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	FinalRating      *float64   `json:"final_rating,omitempty"`
	FinalizedByID    *uuid.UUID `gorm:"type:uuid" json:"finalized_by_id,omitempty"`
	FinalizedAt      *time.Time `json:"finalized_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Student *Student    `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Reviews []XenReview `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

func (x *XenSubmission) BeforeCreate(tx *gorm.DB) error {
	if x.ID == uuid.Nil {
		x.ID = uuid.New()
	}
	return nil
}

// XenReview is one scout's assessment. One review per scout per submission.
type XenReview struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index:idx_xen_review_pair,unique" json:"submission_id"`
	ScoutID      uuid.UUID `gorm:"type:uuid;not null;index:idx_xen_review_pair,unique" json:"scout_id"`
	Score        int       `gorm:"not null" json:"score"` // 1-10
	Feedback     string    `gorm:"type:text" json:"feedback"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Scout *User `gorm:"foreignKey:ScoutID" json:"scout,omitempty"`
}

func (r *XenReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

package repository

import (
	"context"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type XenRepository interface {
	CreateSubmission(ctx context.Context, submission *model.XenSubmission) error
	FindSubmissionByID(ctx context.Context, id uuid.UUID) (*model.XenSubmission, error)
	FindSubmissionsByStudent(ctx context.Context, studentID uuid.UUID) ([]model.XenSubmission, error)
	FindSubmissionsByStatus(ctx context.Context, status string, limit, offset int) ([]model.XenSubmission, error)
	UpdateSubmission(ctx context.Context, submission *model.XenSubmission) error

	CreateReview(ctx context.Context, review *model.XenReview) error
	FindReviews(ctx context.Context, submissionID uuid.UUID) ([]model.XenReview, error)
	HasReviewed(ctx context.Context, submissionID, scoutID uuid.UUID) (bool, error)

	CountSubmissions(ctx context.Context) (int64, error)
}

type xenRepository struct {
	db *gorm.DB
}

func NewXenRepository(db *gorm.DB) XenRepository {
	return &xenRepository{db: db}
}

func (r *xenRepository) CreateSubmission(ctx context.Context, submission *model.XenSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *xenRepository) FindSubmissionByID(ctx context.Context, id uuid.UUID) (*model.XenSubmission, error) {
	var submission model.XenSubmission
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Reviews").
		Preload("Reviews.Scout", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username")
		}).
		Where("id = ?", id).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *xenRepository) FindSubmissionsByStudent(ctx context.Context, studentID uuid.UUID) ([]model.XenSubmission, error) {
	var submissions []model.XenSubmission
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&submissions).Error
	return submissions, err
}

func (r *xenRepository) FindSubmissionsByStatus(ctx context.Context, status string, limit, offset int) ([]model.XenSubmission, error) {
	var submissions []model.XenSubmission
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("status = ?", status).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&submissions).Error
	return submissions, err
}

func (r *xenRepository) UpdateSubmission(ctx context.Context, submission *model.XenSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *xenRepository) CreateReview(ctx context.Context, review *model.XenReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *xenRepository) FindReviews(ctx context.Context, submissionID uuid.UUID) ([]model.XenReview, error) {
	var reviews []model.XenReview
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at asc").
		Find(&reviews).Error
	return reviews, err
}

func (r *xenRepository) HasReviewed(ctx context.Context, submissionID, scoutID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.XenReview{}).
		Where("submission_id = ? AND scout_id = ?", submissionID, scoutID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *xenRepository) CountSubmissions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.XenSubmission{}).Count(&count).Error
	return count, err
}

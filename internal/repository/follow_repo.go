package repository

import (
	"context"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository interface {
	Create(ctx context.Context, followerID, studentID uuid.UUID) error
	Delete(ctx context.Context, followerID, studentID uuid.UUID) error
	Exists(ctx context.Context, followerID, studentID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, studentID uuid.UUID) ([]model.Follow, error)
	ListFollowing(ctx context.Context, followerID uuid.UUID, limit, offset int) ([]model.Follow, error)
	CountFollowers(ctx context.Context, studentID uuid.UUID) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create is idempotent: re-following hits the unique pair index and is
// ignored instead of erroring.
func (r *followRepository) Create(ctx context.Context, followerID, studentID uuid.UUID) error {
	follow := &model.Follow{FollowerID: followerID, StudentID: studentID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, studentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND student_id = ?", followerID, studentID).
		Delete(&model.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, studentID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND student_id = ?", followerID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, studentID uuid.UUID) ([]model.Follow, error) {
	var follows []model.Follow
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&follows).Error
	return follows, err
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID uuid.UUID, limit, offset int) ([]model.Follow, error) {
	var follows []model.Follow
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("follower_id = ?", followerID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&follows).Error
	return follows, err
}

func (r *followRepository) CountFollowers(ctx context.Context, studentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

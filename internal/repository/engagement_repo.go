package repository

import (
	"context"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository covers likes, comments and saves on posts.
type EngagementRepository interface {
	Like(ctx context.Context, userID, postID uuid.UUID) error
	Unlike(ctx context.Context, userID, postID uuid.UUID) error
	IsLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	CountLikes(ctx context.Context, postID uuid.UUID) (int64, error)

	CreateComment(ctx context.Context, comment *model.Comment) error
	FindComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]model.Comment, error)
	CountComments(ctx context.Context, postID uuid.UUID) (int64, error)

	Save(ctx context.Context, userID, postID uuid.UUID) error
	Unsave(ctx context.Context, userID, postID uuid.UUID) error
	FindSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Save, error)
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) Like(ctx context.Context, userID, postID uuid.UUID) error {
	like := &model.Like{UserID: userID, PostID: postID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

func (r *engagementRepository) Unlike(ctx context.Context, userID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{}).Error
}

func (r *engagementRepository) IsLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *engagementRepository) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *engagementRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *engagementRepository) FindComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar_url")
		}).
		Find(&comments).Error
	return comments, err
}

func (r *engagementRepository) CountComments(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *engagementRepository) Save(ctx context.Context, userID, postID uuid.UUID) error {
	save := &model.Save{UserID: userID, PostID: postID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(save).Error
}

func (r *engagementRepository) Unsave(ctx context.Context, userID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Save{}).Error
}

func (r *engagementRepository) FindSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Save, error) {
	var saves []model.Save
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&saves).Error
	return saves, err
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type EngagementService interface {
	LikePost(ctx context.Context, userID, postID uuid.UUID) error
	UnlikePost(ctx context.Context, userID, postID uuid.UUID) error
	CommentOnPost(ctx context.Context, userID, postID uuid.UUID, body string) (*model.Comment, error)
	GetComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]model.Comment, error)
	SavePost(ctx context.Context, userID, postID uuid.UUID) error
	UnsavePost(ctx context.Context, userID, postID uuid.UUID) error
	GetSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Save, error)
	PostCounts(ctx context.Context, postID uuid.UUID) (likes, comments int64, err error)
}

type engagementService struct {
	engagementRepo      repository.EngagementRepository
	postRepo            repository.PostRepository
	notificationService NotificationService
	sanitizer           *bluemonday.Policy
}

func NewEngagementService(engagementRepo repository.EngagementRepository, postRepo repository.PostRepository, notificationService NotificationService) EngagementService {
	return &engagementService{
		engagementRepo:      engagementRepo,
		postRepo:            postRepo,
		notificationService: notificationService,
		sanitizer:           bluemonday.StrictPolicy(),
	}
}

func (s *engagementService) LikePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.engagementRepo.Like(ctx, userID, postID); err != nil {
		return err
	}

	s.notifyPostOwner(ctx, post, userID, model.NotificationPostLiked, "Post liked", "Someone liked your post")
	return nil
}

func (s *engagementService) UnlikePost(ctx context.Context, userID, postID uuid.UUID) error {
	return s.engagementRepo.Unlike(ctx, userID, postID)
}

func (s *engagementService) CommentOnPost(ctx context.Context, userID, postID uuid.UUID, body string) (*model.Comment, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	clean := s.sanitizer.Sanitize(body)
	if clean == "" {
		return nil, fmt.Errorf("comment is empty: %w", apperror.ErrInvalidInput)
	}

	comment := &model.Comment{
		PostID: postID,
		UserID: userID,
		Body:   clean,
	}
	if err := s.engagementRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.notifyPostOwner(ctx, post, userID, model.NotificationPostCommented, "New comment", "Someone commented on your post")
	return comment, nil
}

func (s *engagementService) GetComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]model.Comment, error) {
	return s.engagementRepo.FindComments(ctx, postID, limit, offset)
}

func (s *engagementService) SavePost(ctx context.Context, userID, postID uuid.UUID) error {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return err
	}
	// Saves are private bookmarks; the post owner is not notified.
	return s.engagementRepo.Save(ctx, userID, postID)
}

func (s *engagementService) UnsavePost(ctx context.Context, userID, postID uuid.UUID) error {
	return s.engagementRepo.Unsave(ctx, userID, postID)
}

func (s *engagementService) GetSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Save, error) {
	return s.engagementRepo.FindSaved(ctx, userID, limit, offset)
}

func (s *engagementService) PostCounts(ctx context.Context, postID uuid.UUID) (int64, int64, error) {
	likes, err := s.engagementRepo.CountLikes(ctx, postID)
	if err != nil {
		return 0, 0, err
	}
	comments, err := s.engagementRepo.CountComments(ctx, postID)
	if err != nil {
		return 0, 0, err
	}
	return likes, comments, nil
}

func (s *engagementService) loadPost(ctx context.Context, postID uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *engagementService) notifyPostOwner(ctx context.Context, post *model.Post, actorID uuid.UUID, kind, title, message string) {
	if post.Student == nil {
		return
	}

	notification := &model.Notification{
		UserID:     post.Student.UserID,
		ActorID:    &actorID,
		EntityID:   post.ID,
		EntityType: model.EntityPost,
		Type:       kind,
		Title:      title,
		Message:    message,
	}
	if err := s.notificationService.Create(ctx, notification); err != nil {
		log.Printf("failed to notify owner of post %s: %v", post.ID, err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, studentID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, studentID uuid.UUID) error
	ListFollowers(ctx context.Context, studentID uuid.UUID) ([]model.Follow, error)
	ListFollowing(ctx context.Context, followerID uuid.UUID, limit, offset int) ([]model.Follow, error)
	FollowerCount(ctx context.Context, studentID uuid.UUID) (int64, error)
}

type followService struct {
	followRepo          repository.FollowRepository
	schoolRepo          repository.SchoolRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
}

func NewFollowService(followRepo repository.FollowRepository, schoolRepo repository.SchoolRepository, userRepo repository.UserRepository, notificationService NotificationService) FollowService {
	return &followService{
		followRepo:          followRepo,
		schoolRepo:          schoolRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// Follow is idempotent; following again is a no-op. The student is told
// about the new follower unless they followed themselves, which is refused
// outright.
func (s *followService) Follow(ctx context.Context, followerID, studentID uuid.UUID) error {
	student, err := s.schoolRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if student.UserID == followerID {
		return fmt.Errorf("cannot follow yourself: %w", apperror.ErrBadRequest)
	}

	if err := s.followRepo.Create(ctx, followerID, studentID); err != nil {
		return err
	}

	follower, err := s.userRepo.FindByID(ctx, followerID.String())
	if err != nil {
		return err
	}

	notification := &model.Notification{
		UserID:     student.UserID,
		ActorID:    &followerID,
		EntityID:   followerID,
		EntityType: model.EntityUser,
		Type:       model.NotificationNewFollower,
		Title:      "New follower",
		Message:    fmt.Sprintf("%s started following you", follower.Username),
	}
	if err := s.notificationService.Create(ctx, notification); err != nil {
		// Notifications are best effort; the follow itself already stuck.
		return nil
	}

	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, studentID uuid.UUID) error {
	return s.followRepo.Delete(ctx, followerID, studentID)
}

func (s *followService) ListFollowers(ctx context.Context, studentID uuid.UUID) ([]model.Follow, error) {
	return s.followRepo.ListFollowers(ctx, studentID)
}

func (s *followService) ListFollowing(ctx context.Context, followerID uuid.UUID, limit, offset int) ([]model.Follow, error) {
	return s.followRepo.ListFollowing(ctx, followerID, limit, offset)
}

func (s *followService) FollowerCount(ctx context.Context, studentID uuid.UUID) (int64, error) {
	return s.followRepo.CountFollowers(ctx, studentID)
}

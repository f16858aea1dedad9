package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// FanoutResult reports per-recipient outcomes of a notification fan-out so
// failures stay inspectable instead of only console-logged. A fan-out never
// aborts on a single recipient.
type FanoutResult struct {
	Notified []uuid.UUID `json:"notified"`
	Skipped  []uuid.UUID `json:"skipped"`
	Failed   []uuid.UUID `json:"failed"`
}

type NotificationService interface {
	Create(ctx context.Context, notification *model.Notification) error
	NotifyFollowersOfNewPost(ctx context.Context, postID, studentID uuid.UUID) FanoutResult
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	followRepo  repository.FollowRepository
	schoolRepo  repository.SchoolRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, followRepo repository.FollowRepository, schoolRepo repository.SchoolRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		followRepo:  followRepo,
		schoolRepo:  schoolRepo,
		redisClient: redisClient,
	}
}

// Create persists one notification and publishes it for live delivery.
// A user never gets notified about their own action, and re-running a
// producer for the same event inserts nothing thanks to the dedup probe
// (backed by the unique index on the same tuple).
func (s *notificationService) Create(ctx context.Context, notification *model.Notification) error {
	if notification.ActorID != nil && *notification.ActorID == notification.UserID {
		return nil
	}

	exists, err := s.repo.Exists(ctx, notification.UserID, notification.Type, notification.EntityType, notification.EntityID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// Publish to Redis if Redis is available
	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", notification.UserID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	return nil
}

// NotifyFollowersOfNewPost writes one "following posted" notification per
// follower of the posting student. Per-recipient failures are logged and
// collected; the remaining recipients are still processed.
func (s *notificationService) NotifyFollowersOfNewPost(ctx context.Context, postID, studentID uuid.UUID) FanoutResult {
	var result FanoutResult

	student, err := s.schoolRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		log.Printf("fanout: failed to load student %s: %v", studentID, err)
		return result
	}

	followers, err := s.followRepo.ListFollowers(ctx, studentID)
	if err != nil {
		log.Printf("fanout: failed to list followers of student %s: %v", studentID, err)
		return result
	}

	for _, follow := range followers {
		recipient := follow.FollowerID
		if recipient == student.UserID {
			result.Skipped = append(result.Skipped, recipient)
			continue
		}

		actorID := student.UserID
		notification := &model.Notification{
			UserID:     recipient,
			ActorID:    &actorID,
			EntityID:   postID,
			EntityType: model.EntityPost,
			Type:       model.NotificationFollowingPosted,
			Title:      "New post",
			Message:    fmt.Sprintf("%s shared a new post", student.FullName),
		}

		if err := s.Create(ctx, notification); err != nil {
			log.Printf("fanout: failed to notify user %s about post %s: %v", recipient, postID, err)
			result.Failed = append(result.Failed, recipient)
			continue
		}
		result.Notified = append(result.Notified, recipient)
	}

	return result
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

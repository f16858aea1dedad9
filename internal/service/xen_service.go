package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/apperror"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type CreateSubmissionInput struct {
	Description string
	Video       io.Reader
	FileName    string
}

type ReviewInput struct {
	Score    int
	Feedback string
}

// XenService drives the XEN Watch workflow: a student pays for a video
// submission, scouts review it, and a scout admin finalizes or rejects it.
type XenService interface {
	CreateSubmission(ctx context.Context, userID uuid.UUID, input CreateSubmissionInput) (*model.XenSubmission, error)
	ConfirmPayment(ctx context.Context, userID, submissionID uuid.UUID, paymentReference string) (*model.XenSubmission, error)
	GetSubmission(ctx context.Context, userID, submissionID uuid.UUID) (*model.XenSubmission, error)
	ListMySubmissions(ctx context.Context, userID uuid.UUID) ([]model.XenSubmission, error)
	ListReviewQueue(ctx context.Context, limit, offset int) ([]model.XenSubmission, error)
	AddReview(ctx context.Context, scoutID, submissionID uuid.UUID, input ReviewInput) (*model.XenReview, error)
	Finalize(ctx context.Context, adminID, submissionID uuid.UUID, approve bool) (*model.XenSubmission, error)
}

type xenService struct {
	xenRepo             repository.XenRepository
	schoolRepo          repository.SchoolRepository
	mediaStorage        storage.MediaStorage
	notificationService NotificationService
	feeCents            int
	sanitizer           *bluemonday.Policy
}

func NewXenService(xenRepo repository.XenRepository, schoolRepo repository.SchoolRepository, mediaStorage storage.MediaStorage, notificationService NotificationService, feeCents int) XenService {
	return &xenService{
		xenRepo:             xenRepo,
		schoolRepo:          schoolRepo,
		mediaStorage:        mediaStorage,
		notificationService: notificationService,
		feeCents:            feeCents,
		sanitizer:           bluemonday.StrictPolicy(),
	}
}

func (s *xenService) CreateSubmission(ctx context.Context, userID uuid.UUID, input CreateSubmissionInput) (*model.XenSubmission, error) {
	student, err := s.schoolRepo.FindStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrForbidden
		}
		return nil, err
	}

	if input.Video == nil {
		return nil, fmt.Errorf("video is required: %w", apperror.ErrInvalidInput)
	}

	videoURL, err := s.mediaStorage.UploadVideo(ctx, input.Video, "xen_watch", input.FileName)
	if err != nil {
		return nil, err
	}

	submission := &model.XenSubmission{
		StudentID:   student.ID,
		VideoURL:    videoURL,
		Description: s.sanitizer.Sanitize(input.Description),
		Status:      model.XenStatusPendingPayment,
		FeeCents:    s.feeCents,
	}

	if err := s.xenRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// ConfirmPayment records the payment reference and moves the submission into
// review. Only the owning student can pay, and only pending_payment
// submissions can be paid.
func (s *xenService) ConfirmPayment(ctx context.Context, userID, submissionID uuid.UUID, paymentReference string) (*model.XenSubmission, error) {
	submission, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwner(ctx, userID, submission); err != nil {
		return nil, err
	}

	if submission.Status != model.XenStatusPendingPayment {
		return nil, fmt.Errorf("submission is %s: %w", submission.Status, apperror.ErrInvalidTransition)
	}

	now := time.Now()
	submission.Status = model.XenStatusInReview
	submission.PaymentReference = &paymentReference
	submission.PaidAt = &now

	if err := s.xenRepo.UpdateSubmission(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// GetSubmission returns one submission. A caller with a student profile may
// only read their own; scouts and admins have no profile and read any.
func (s *xenService) GetSubmission(ctx context.Context, userID, submissionID uuid.UUID) (*model.XenSubmission, error) {
	submission, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	student, err := s.schoolRepo.FindStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return submission, nil
		}
		return nil, err
	}
	if submission.StudentID != student.ID {
		return nil, apperror.ErrForbidden
	}
	return submission, nil
}

// requireOwner checks that userID is the student who owns the submission.
func (s *xenService) requireOwner(ctx context.Context, userID uuid.UUID, submission *model.XenSubmission) error {
	student, err := s.schoolRepo.FindStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrForbidden
		}
		return err
	}
	if submission.StudentID != student.ID {
		return apperror.ErrForbidden
	}
	return nil
}

func (s *xenService) ListMySubmissions(ctx context.Context, userID uuid.UUID) ([]model.XenSubmission, error) {
	student, err := s.schoolRepo.FindStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrForbidden
		}
		return nil, err
	}
	return s.xenRepo.FindSubmissionsByStudent(ctx, student.ID)
}

func (s *xenService) ListReviewQueue(ctx context.Context, limit, offset int) ([]model.XenSubmission, error) {
	return s.xenRepo.FindSubmissionsByStatus(ctx, model.XenStatusInReview, limit, offset)
}

// AddReview stores one scout's score. Reviews are only accepted while the
// submission is in review, and each scout reviews a submission once.
func (s *xenService) AddReview(ctx context.Context, scoutID, submissionID uuid.UUID, input ReviewInput) (*model.XenReview, error) {
	submission, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if submission.Status != model.XenStatusInReview {
		return nil, fmt.Errorf("submission is %s: %w", submission.Status, apperror.ErrInvalidTransition)
	}
	if input.Score < 1 || input.Score > 10 {
		return nil, fmt.Errorf("score must be between 1 and 10: %w", apperror.ErrInvalidInput)
	}

	reviewed, err := s.xenRepo.HasReviewed(ctx, submissionID, scoutID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, fmt.Errorf("already reviewed: %w", apperror.ErrConflict)
	}

	review := &model.XenReview{
		SubmissionID: submissionID,
		ScoutID:      scoutID,
		Score:        input.Score,
		Feedback:     s.sanitizer.Sanitize(input.Feedback),
	}
	if err := s.xenRepo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Finalize closes a submission. Approval requires at least one review and
// records the average score; rejection needs none. The student is notified
// either way, best effort.
func (s *xenService) Finalize(ctx context.Context, adminID, submissionID uuid.UUID, approve bool) (*model.XenSubmission, error) {
	submission, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if submission.Status != model.XenStatusInReview {
		return nil, fmt.Errorf("submission is %s: %w", submission.Status, apperror.ErrInvalidTransition)
	}

	now := time.Now()
	submission.FinalizedByID = &adminID
	submission.FinalizedAt = &now

	kind := model.NotificationXenRejected
	title := "Submission rejected"
	message := "Your XEN Watch submission was not accepted"

	if approve {
		reviews, err := s.xenRepo.FindReviews(ctx, submissionID)
		if err != nil {
			return nil, err
		}
		if len(reviews) == 0 {
			return nil, fmt.Errorf("cannot finalize without reviews: %w", apperror.ErrConflict)
		}

		total := 0
		for _, review := range reviews {
			total += review.Score
		}
		rating := float64(total) / float64(len(reviews))
		submission.Status = model.XenStatusFinalized
		submission.FinalRating = &rating

		kind = model.NotificationXenFinalized
		title = "Submission finalized"
		message = fmt.Sprintf("Your XEN Watch submission was scored %.1f", rating)
	} else {
		submission.Status = model.XenStatusRejected
	}

	if err := s.xenRepo.UpdateSubmission(ctx, submission); err != nil {
		return nil, err
	}

	if submission.Student != nil {
		notification := &model.Notification{
			UserID:     submission.Student.UserID,
			ActorID:    &adminID,
			EntityID:   submission.ID,
			EntityType: model.EntityXenSubmission,
			Type:       kind,
			Title:      title,
			Message:    message,
		}
		if err := s.notificationService.Create(ctx, notification); err != nil {
			log.Printf("failed to notify student about submission %s: %v", submission.ID, err)
		}
	}

	return submission, nil
}

func (s *xenService) loadSubmission(ctx context.Context, id uuid.UUID) (*model.XenSubmission, error) {
	submission, err := s.xenRepo.FindSubmissionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return submission, nil
}

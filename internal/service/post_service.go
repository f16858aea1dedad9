package service

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/apperror"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type CreatePostInput struct {
	Caption  string
	Media    io.Reader
	FileName string
}

type PostService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, input CreatePostInput) (*model.Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error)
	GetFeed(ctx context.Context, limit, offset int) ([]model.Post, error)
	GetStudentPosts(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]model.Post, error)
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
}

type postService struct {
	postRepo            repository.PostRepository
	schoolRepo          repository.SchoolRepository
	mediaStorage        storage.MediaStorage
	notificationService NotificationService
	searchService       SearchService
	sanitizer           *bluemonday.Policy
}

func NewPostService(postRepo repository.PostRepository, schoolRepo repository.SchoolRepository, mediaStorage storage.MediaStorage, notificationService NotificationService, searchService SearchService) PostService {
	return &postService{
		postRepo:            postRepo,
		schoolRepo:          schoolRepo,
		mediaStorage:        mediaStorage,
		notificationService: notificationService,
		searchService:       searchService,
		sanitizer:           bluemonday.StrictPolicy(),
	}
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".webm": true, ".avi": true, ".mkv": true,
}

// CreatePost publishes a student's media post. The follower fan-out runs in
// the background: a post must never fail or block because notifications do.
func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, input CreatePostInput) (*model.Post, error) {
	student, err := s.findStudentByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Media == nil {
		return nil, apperror.ErrInvalidInput
	}

	mediaType := model.MediaTypeImage
	ext := strings.ToLower(filepath.Ext(input.FileName))
	if videoExtensions[ext] {
		mediaType = model.MediaTypeVideo
	}

	var mediaURL string
	if mediaType == model.MediaTypeVideo {
		mediaURL, err = s.mediaStorage.UploadVideo(ctx, input.Media, "posts", input.FileName)
	} else {
		mediaURL, err = s.mediaStorage.UploadImage(ctx, input.Media, "posts", input.FileName)
	}
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		StudentID: student.ID,
		Caption:   s.sanitizer.Sanitize(input.Caption),
		MediaURL:  mediaURL,
		MediaType: mediaType,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Student = student

	if s.searchService != nil {
		if err := s.searchService.IndexPost(post); err != nil {
			log.Printf("failed to index post %s: %v", post.ID, err)
		}
	}

	go func() {
		result := s.notificationService.NotifyFollowersOfNewPost(context.Background(), post.ID, student.ID)
		if len(result.Failed) > 0 {
			log.Printf("post %s fanout: %d notified, %d failed", post.ID, len(result.Notified), len(result.Failed))
		}
	}()

	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) GetFeed(ctx context.Context, limit, offset int) ([]model.Post, error) {
	return s.postRepo.FindFeed(ctx, limit, offset)
}

func (s *postService) GetStudentPosts(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]model.Post, error) {
	return s.postRepo.FindByStudentID(ctx, studentID, limit, offset)
}

func (s *postService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	student, err := s.findStudentByUser(ctx, userID)
	if err != nil || post.StudentID != student.ID {
		return apperror.ErrForbidden
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if s.mediaStorage != nil {
		if err := s.mediaStorage.DeleteMedia(ctx, post.MediaURL); err != nil {
			log.Printf("failed to delete media for post %s: %v", postID, err)
		}
	}
	if s.searchService != nil {
		if err := s.searchService.DeletePost(postID.String()); err != nil {
			log.Printf("failed to deindex post %s: %v", postID, err)
		}
	}

	return nil
}

func (s *postService) findStudentByUser(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	student, err := s.schoolRepo.FindStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrForbidden
		}
		return nil, err
	}
	return student, nil
}

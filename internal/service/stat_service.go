package service

import (
	"context"

	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/google/uuid"
)

type PlatformStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalPosts       int64 `json:"total_posts"`
	TotalSubmissions int64 `json:"total_submissions"`
}

type SchoolStats struct {
	TotalStudents int64 `json:"total_students"`
}

type StatService interface {
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
	GetSchoolStats(ctx context.Context, schoolID uuid.UUID) (*SchoolStats, error)
}

type statService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	xenRepo    repository.XenRepository
	schoolRepo repository.SchoolRepository
}

func NewStatService(userRepo repository.UserRepository, postRepo repository.PostRepository, xenRepo repository.XenRepository, schoolRepo repository.SchoolRepository) StatService {
	return &statService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		xenRepo:    xenRepo,
		schoolRepo: schoolRepo,
	}
}

func (s *statService) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	submissions, err := s.xenRepo.CountSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalUsers:       users,
		TotalPosts:       posts,
		TotalSubmissions: submissions,
	}, nil
}

func (s *statService) GetSchoolStats(ctx context.Context, schoolID uuid.UUID) (*SchoolStats, error) {
	students, err := s.schoolRepo.CountStudents(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return &SchoolStats{TotalStudents: students}, nil
}

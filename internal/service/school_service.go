package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/apperror"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateSchoolInput struct {
	Name  string  `json:"name" binding:"required,min=2,max=150"`
	City  *string `json:"city"`
	State *string `json:"state"`
}

type OnboardStudentInput struct {
	Username       string `json:"username" binding:"required,min=3,max=50"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	FullName       string `json:"full_name" binding:"required"`
	Sport          string `json:"sport" binding:"required"`
	GraduationYear *int   `json:"graduation_year"`
	Position       *string `json:"position"`
}

type SchoolService interface {
	CreateSchool(ctx context.Context, input CreateSchoolInput) (*model.School, error)
	GetSchool(ctx context.Context, id uuid.UUID) (*model.School, error)
	ListSchools(ctx context.Context) ([]model.School, error)
	OnboardStudent(ctx context.Context, schoolID uuid.UUID, input OnboardStudentInput) (*model.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error)
	ListStudents(ctx context.Context, schoolID uuid.UUID) ([]model.Student, error)
}

type schoolService struct {
	schoolRepo    repository.SchoolRepository
	userRepo      repository.UserRepository
	searchService SearchService
}

func NewSchoolService(schoolRepo repository.SchoolRepository, userRepo repository.UserRepository, searchService SearchService) SchoolService {
	return &schoolService{
		schoolRepo:    schoolRepo,
		userRepo:      userRepo,
		searchService: searchService,
	}
}

func (s *schoolService) CreateSchool(ctx context.Context, input CreateSchoolInput) (*model.School, error) {
	school := &model.School{
		Name:  input.Name,
		City:  input.City,
		State: input.State,
	}
	if err := s.schoolRepo.Create(ctx, school); err != nil {
		return nil, err
	}
	return school, nil
}

func (s *schoolService) GetSchool(ctx context.Context, id uuid.UUID) (*model.School, error) {
	school, err := s.schoolRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return school, nil
}

func (s *schoolService) ListSchools(ctx context.Context) ([]model.School, error) {
	return s.schoolRepo.FindAll(ctx)
}

// OnboardStudent creates the student's login account and athlete profile in
// one shot, bound to the school.
func (s *schoolService) OnboardStudent(ctx context.Context, schoolID uuid.UUID, input OnboardStudentInput) (*model.Student, error) {
	if _, err := s.schoolRepo.FindByID(ctx, schoolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.userRepo.FindRoleByName(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       &role.ID,
	}
	student := &model.Student{
		SchoolID:       schoolID,
		FullName:       input.FullName,
		Sport:          input.Sport,
		GraduationYear: input.GraduationYear,
		Position:       input.Position,
	}

	if err := s.schoolRepo.CreateStudent(ctx, user, student); err != nil {
		return nil, err
	}
	student.User = user

	if s.searchService != nil {
		if err := s.searchService.IndexStudent(student); err != nil {
			// Searchability lags, the student still exists.
			return student, nil
		}
	}

	return student, nil
}

func (s *schoolService) GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	student, err := s.schoolRepo.FindStudentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *schoolService) ListStudents(ctx context.Context, schoolID uuid.UUID) ([]model.Student, error) {
	return s.schoolRepo.FindStudentsBySchool(ctx, schoolID)
}

package repository

import (
	"context"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SchoolRepository interface {
	Create(ctx context.Context, school *model.School) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.School, error)
	FindAll(ctx context.Context) ([]model.School, error)
	CreateStudent(ctx context.Context, user *model.User, student *model.Student) error
	FindStudentByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error)
	FindStudentsBySchool(ctx context.Context, schoolID uuid.UUID) ([]model.Student, error)
	CountStudents(ctx context.Context, schoolID uuid.UUID) (int64, error)
}

type schoolRepository struct {
	db *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) Create(ctx context.Context, school *model.School) error {
	return r.db.WithContext(ctx).Create(school).Error
}

func (r *schoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.School, error) {
	var school model.School
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&school).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepository) FindAll(ctx context.Context) ([]model.School, error) {
	var schools []model.School
	err := r.db.WithContext(ctx).Order("name asc").Find(&schools).Error
	return schools, err
}

// CreateStudent onboards a student: the login user and the athlete profile
// are written in one transaction so a failed profile never leaves a
// half-created account.
func (r *schoolRepository) CreateStudent(ctx context.Context, user *model.User, student *model.Student) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		student.UserID = user.ID
		return tx.Create(student).Error
	})
}

func (r *schoolRepository) FindStudentByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("School").
		Where("id = ?", id).
		First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *schoolRepository) FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).
		Preload("School").
		Where("user_id = ?", userID).
		First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *schoolRepository) FindStudentsBySchool(ctx context.Context, schoolID uuid.UUID) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar_url")
		}).
		Where("school_id = ?", schoolID).
		Order("full_name asc").
		Find(&students).Error
	return students, err
}

func (r *schoolRepository) CountStudents(ctx context.Context, schoolID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).Where("school_id = ?", schoolID).Count(&count).Error
	return count, err
}

package bootstrap

import (
	"log"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.School{},
		&model.Student{},
		&model.Post{},
		&model.Comment{},
		&model.Like{},
		&model.Save{},
		&model.Follow{},
		&model.Notification{},
		&model.XenSubmission{},
		&model.XenReview{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: model.RoleViewer, Description: "Fan or family member browsing the platform"},
		{Name: model.RoleStudent, Description: "Student athlete"},
		{Name: model.RoleScout, Description: "Scout reviewing XEN Watch submissions"},
		{Name: model.RoleScoutAdmin, Description: "Scout admin finalizing XEN Watch submissions"},
		{Name: model.RoleSchoolAdmin, Description: "School administrator"},
		{Name: model.RoleSystemAdmin, Description: "Super administrator"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleSystemAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@lockerroom.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Username:     "admin",
		Email:        "admin@lockerroom.local",
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	log.Println("   Email: admin@lockerroom.local")
	log.Println("   Password: admin123")

	return nil
}

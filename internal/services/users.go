package services

import (
	"taskboard/internal/models"

	"gorm.io/gorm"
)

type UserService interface {
	ListUsers(db *gorm.DB) ([]models.UserSummary, error)
}

type UserServiceImpl struct{}

func NewUserService() *UserServiceImpl {
	return &UserServiceImpl{}
}

// ListUsers selects id and email only; the password column never
// leaves the database.
func (s *UserServiceImpl) ListUsers(db *gorm.DB) ([]models.UserSummary, error) {
	var users []models.UserSummary
	err := db.Model(&models.User{}).Select("id", "email").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

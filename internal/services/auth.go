package services

import (
	"errors"
	"strings"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPersonalBoardTitle is the title of the starter board created
// for every new account.
const DefaultPersonalBoardTitle = "Personal Board"

type AuthService interface {
	SignUp(db *gorm.DB, email, password string) (*models.User, error)
	SignIn(db *gorm.DB, email, password string) (string, error)
}

type AuthServiceImpl struct {
	cfg config.AuthConfig
}

func NewAuthService(cfg config.AuthConfig) *AuthServiceImpl {
	return &AuthServiceImpl{cfg: cfg}
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// SignUp creates the user and their starter personal board in one
// transaction, so an account never exists without its board.
func (s *AuthServiceImpl) SignUp(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BCryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Email:    email,
		Password: string(hashed),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		board := models.Board{
			ID:              uuid.Must(uuid.NewV4()),
			Title:           DefaultPersonalBoardTitle,
			UserID:          user.ID,
			BackgroundColor: models.DefaultBoardColor,
			IsStarred:       true,
		}
		return tx.Create(&board).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *AuthServiceImpl) SignIn(db *gorm.DB, email, password string) (string, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !VerifyPassword(user.Password, password) {
		return "", ErrInvalidCredentials
	}

	username := strings.Split(user.Email, "@")[0]
	claims := jwt.MapClaims{
		"id":       user.ID.String(),
		"email":    user.Email,
		"username": username,
		"exp":      time.Now().Add(s.cfg.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

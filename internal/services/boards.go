package services

import (
	"fmt"
	"strings"

	"taskboard/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type BoardService interface {
	CreateBoard(db *gorm.DB, ownerID uuid.UUID, title, backgroundColor string) (*models.Board, error)
	GetBoardAggregate(db *gorm.DB, boardID uuid.UUID) (*models.BoardAggregate, error)
	ListBoardsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Board, error)
	PatchBoard(db *gorm.DB, boardID uuid.UUID, patch BoardPatch) (*models.Board, error)
	DeleteBoard(db *gorm.DB, boardID, requesterID uuid.UUID) error
}

// BoardPatch carries the fields of a partial update. A nil pointer
// means the field was not supplied and must be left untouched.
type BoardPatch struct {
	Title           *string
	BackgroundColor *string
	IsStarred       *bool
}

type BoardServiceImpl struct{}

func NewBoardService() *BoardServiceImpl {
	return &BoardServiceImpl{}
}

func (s *BoardServiceImpl) CreateBoard(db *gorm.DB, ownerID uuid.UUID, title, backgroundColor string) (*models.Board, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if backgroundColor == "" {
		backgroundColor = models.DefaultBoardColor
	}

	board := models.Board{
		ID:              uuid.Must(uuid.NewV4()),
		Title:           title,
		UserID:          ownerID,
		BackgroundColor: backgroundColor,
		IsStarred:       false,
	}
	if err := db.Create(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// GetBoardAggregate composes the board with its lists and each list's
// tasks. Children are resolved by back-reference query at read time;
// no ordering clause is applied, so natural storage order is kept.
func (s *BoardServiceImpl) GetBoardAggregate(db *gorm.DB, boardID uuid.UUID) (*models.BoardAggregate, error) {
	var board models.Board
	if err := db.First(&board, "id = ?", boardID).Error; err != nil {
		return nil, err
	}

	var lists []models.List
	if err := db.Where("board_id = ?", board.ID).Find(&lists).Error; err != nil {
		return nil, err
	}

	aggregate := models.BoardAggregate{
		Board: board,
		Lists: make([]models.ListWithTasks, 0, len(lists)),
	}

	for _, list := range lists {
		var tasks []models.Task
		if err := db.Where("list_id = ?", list.ID).Find(&tasks).Error; err != nil {
			return nil, err
		}
		aggregate.Lists = append(aggregate.Lists, models.ListWithTasks{
			List:  list,
			Tasks: tasks,
		})
	}

	return &aggregate, nil
}

func (s *BoardServiceImpl) ListBoardsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Board, error) {
	var boards []models.Board
	if err := db.Where("user_id = ?", userID).Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

func (s *BoardServiceImpl) PatchBoard(db *gorm.DB, boardID uuid.UUID, patch BoardPatch) (*models.Board, error) {
	var board models.Board
	if err := db.First(&board, "id = ?", boardID).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		updates["title"] = *patch.Title
		board.Title = *patch.Title
	}
	if patch.BackgroundColor != nil {
		updates["background_color"] = *patch.BackgroundColor
		board.BackgroundColor = *patch.BackgroundColor
	}
	if patch.IsStarred != nil {
		updates["is_starred"] = *patch.IsStarred
		board.IsStarred = *patch.IsStarred
	}

	if len(updates) == 0 {
		return &board, nil
	}

	if err := db.Model(&models.Board{}).Where("id = ?", board.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// DeleteBoard cascades two levels: tasks on the board, then its lists,
// then the board itself. The three steps run inside one transaction
// but keep that order, so a partial failure can only leave childless
// lists behind and a retry stays safe.
func (s *BoardServiceImpl) DeleteBoard(db *gorm.DB, boardID, requesterID uuid.UUID) error {
	var board models.Board
	if err := db.First(&board, "id = ?", boardID).Error; err != nil {
		return err
	}

	if board.UserID != requesterID {
		return ErrNotOwner
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", board.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", board.ID).Delete(&models.List{}).Error; err != nil {
			return err
		}
		return tx.Delete(&board).Error
	})
}

package services

import (
	"fmt"
	"strings"

	"taskboard/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type ListService interface {
	CreateList(db *gorm.DB, ownerID, boardID uuid.UUID, title string) (*models.List, error)
	PatchList(db *gorm.DB, listID uuid.UUID, patch ListPatch) (*models.List, error)
	DeleteList(db *gorm.DB, listID uuid.UUID) (*models.List, error)
}

type ListPatch struct {
	Title *string
}

type ListServiceImpl struct{}

func NewListService() *ListServiceImpl {
	return &ListServiceImpl{}
}

func (s *ListServiceImpl) CreateList(db *gorm.DB, ownerID, boardID uuid.UUID, title string) (*models.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if boardID == uuid.Nil {
		return nil, fmt.Errorf("%w: boardId is required", ErrInvalidInput)
	}

	// The board reference must be valid at write time; there is no
	// foreign-key constraint backing it up.
	var board models.Board
	if err := db.First(&board, "id = ?", boardID).Error; err != nil {
		return nil, err
	}

	list := models.List{
		ID:      uuid.Must(uuid.NewV4()),
		Title:   title,
		UserID:  ownerID,
		BoardID: board.ID,
	}
	if err := db.Create(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *ListServiceImpl) PatchList(db *gorm.DB, listID uuid.UUID, patch ListPatch) (*models.List, error) {
	var list models.List
	if err := db.First(&list, "id = ?", listID).Error; err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		if err := db.Model(&models.List{}).Where("id = ?", list.ID).Update("title", title).Error; err != nil {
			return nil, err
		}
		list.Title = title
	}

	return &list, nil
}

// DeleteList removes the list's tasks before the list itself, so a
// failure mid-way never strands tasks pointing at a missing list.
// The deleted list is returned so callers can invalidate its board.
func (s *ListServiceImpl) DeleteList(db *gorm.DB, listID uuid.UUID) (*models.List, error) {
	var list models.List
	if err := db.First(&list, "id = ?", listID).Error; err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", list.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&list).Error
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

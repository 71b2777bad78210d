package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskService interface {
	CreateTask(db *gorm.DB, ownerID uuid.UUID, in TaskInput) (*models.Task, error)
	PatchTask(db *gorm.DB, taskID uuid.UUID, patch TaskPatch) (*models.Task, error)
	MoveTask(db *gorm.DB, taskID, destinationListID uuid.UUID) (*models.Task, error)
	DeleteTask(db *gorm.DB, taskID uuid.UUID) (*models.Task, error)
	ListTasksAssignedTo(db *gorm.DB, userID uuid.UUID) ([]models.AssignedTask, error)
}

type TaskInput struct {
	Title       string
	BoardID     uuid.UUID
	ListID      uuid.UUID
	Description string
	DueDate     *time.Time
	Labels      []string
	AssignedTo  *uuid.UUID
}

// TaskPatch distinguishes "field omitted" from "field explicitly set
// to its empty value". For nullable fields the Set flag marks
// presence and a nil value clears the field.
type TaskPatch struct {
	Title       *string
	Description *string

	DueDate    *time.Time
	DueDateSet bool

	Labels    []string
	LabelsSet bool

	AssignedTo    *uuid.UUID
	AssignedToSet bool

	ListID *uuid.UUID
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// labelsJSON serializes labels for column-level updates, which bypass
// the model's json serializer.
func labelsJSON(labels []string) (string, error) {
	data, err := json.Marshal(labels)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, ownerID uuid.UUID, in TaskInput) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" || in.BoardID == uuid.Nil || in.ListID == uuid.Nil {
		return nil, fmt.Errorf("%w: title, boardId and listId are required", ErrInvalidInput)
	}

	// The list reference is validated on every create and must agree
	// with the supplied board; nothing at the storage layer enforces it.
	var list models.List
	if err := db.First(&list, "id = ?", in.ListID).Error; err != nil {
		return nil, err
	}
	if list.BoardID != in.BoardID {
		return nil, fmt.Errorf("%w: listId does not belong to boardId", ErrInvalidInput)
	}

	labels := in.Labels
	if labels == nil {
		labels = []string{}
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		Title:       in.Title,
		UserID:      ownerID,
		BoardID:     in.BoardID,
		ListID:      in.ListID,
		Description: in.Description,
		DueDate:     in.DueDate,
		Labels:      labels,
		AssignedTo:  in.AssignedTo,
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) PatchTask(db *gorm.DB, taskID uuid.UUID, patch TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", taskID).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		updates["title"] = *patch.Title
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
		task.Description = *patch.Description
	}
	if patch.DueDateSet {
		updates["due_date"] = patch.DueDate
		task.DueDate = patch.DueDate
	}
	if patch.LabelsSet {
		labels := patch.Labels
		if labels == nil {
			labels = []string{}
		}
		task.Labels = labels
		data, err := labelsJSON(labels)
		if err != nil {
			return nil, err
		}
		updates["labels"] = data
	}
	if patch.AssignedToSet {
		updates["assigned_to"] = patch.AssignedTo
		task.AssignedTo = patch.AssignedTo
	}
	if patch.ListID != nil {
		updates["list_id"] = *patch.ListID
		task.ListID = *patch.ListID
	}

	if len(updates) == 0 {
		return &task, nil
	}

	if err := db.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// MoveTask re-homes a task under the destination list and changes
// nothing else. Calling it again with the same destination is a no-op,
// and concurrent moves of the same task resolve to whichever write
// lands last. The destination's board membership is deliberately not
// checked here.
func (s *TaskServiceImpl) MoveTask(db *gorm.DB, taskID, destinationListID uuid.UUID) (*models.Task, error) {
	if destinationListID == uuid.Nil {
		return nil, fmt.Errorf("%w: listId is required", ErrInvalidInput)
	}
	return s.PatchTask(db, taskID, TaskPatch{ListID: &destinationListID})
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", taskID).Error; err != nil {
		return nil, err
	}
	if err := db.Delete(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasksAssignedTo returns the user's assigned tasks enriched with
// the owning board's and list's titles as they are right now. The
// titles are a read-time join for display only; deleted parents show
// up as unknown.
func (s *TaskServiceImpl) ListTasksAssignedTo(db *gorm.DB, userID uuid.UUID) ([]models.AssignedTask, error) {
	var tasks []models.Task
	if err := db.Where("assigned_to = ?", userID).Find(&tasks).Error; err != nil {
		return nil, err
	}

	boardTitles := map[uuid.UUID]string{}
	listTitles := map[uuid.UUID]string{}

	enriched := make([]models.AssignedTask, 0, len(tasks))
	for _, task := range tasks {
		boardTitle, ok := boardTitles[task.BoardID]
		if !ok {
			var board models.Board
			if err := db.Select("title").First(&board, "id = ?", task.BoardID).Error; err != nil {
				boardTitle = "Unknown Board"
			} else {
				boardTitle = board.Title
			}
			boardTitles[task.BoardID] = boardTitle
		}

		listTitle, ok := listTitles[task.ListID]
		if !ok {
			var list models.List
			if err := db.Select("title").First(&list, "id = ?", task.ListID).Error; err != nil {
				listTitle = "Unknown List"
			} else {
				listTitle = list.Title
			}
			listTitles[task.ListID] = listTitle
		}

		enriched = append(enriched, models.AssignedTask{
			Task:       task,
			BoardTitle: boardTitle,
			ListTitle:  listTitle,
		})
	}

	return enriched, nil
}

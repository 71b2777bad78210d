package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/services"
	"taskboard/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ReminderScheduler schedules a due-date reminder job. Nil disables
// reminders (handler tests run without redis).
type ReminderScheduler interface {
	EnqueueAt(queue string, jobType worker.JobType, payload map[string]interface{}, processAt time.Time) error
}

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	invalidator services.AggregateInvalidator
	reminders   ReminderScheduler
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService, invalidator services.AggregateInvalidator, reminders ReminderScheduler) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, invalidator: invalidator, reminders: reminders}
}

// scheduleReminder queues a reminder an hour before the task is due.
// Failures are logged only; reminders are best effort and never block
// the write that triggered them.
func (h *TaskHandler) scheduleReminder(task *models.Task) {
	if h.reminders == nil || task.DueDate == nil {
		return
	}

	err := h.reminders.EnqueueAt("reminders", worker.JobTypeDueDateReminder, map[string]interface{}{
		"task_id": task.ID.String(),
		"title":   task.Title,
		"due_at":  task.DueDate.Format(time.RFC3339),
	}, task.DueDate.Add(-time.Hour))
	if err != nil {
		log.Printf("failed to schedule reminder for task %s: %v", task.ID, err)
	}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Title       string     `json:"title"`
		BoardID     string     `json:"boardId"`
		ListID      string     `json:"listId"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"dueDate"`
		Labels      []string   `json:"labels"`
		AssignedTo  *string    `json:"assignedTo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Title == "" || req.BoardID == "" || req.ListID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields (title, boardId, listId)"})
		return
	}

	var assignedTo *uuid.UUID
	if req.AssignedTo != nil && *req.AssignedTo != "" {
		id, err := uuid.FromString(*req.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignedTo"})
			return
		}
		assignedTo = &id
	}

	task, err := h.taskService.CreateTask(h.db, userID, services.TaskInput{
		Title:       req.Title,
		BoardID:     uuid.FromStringOrNil(req.BoardID),
		ListID:      uuid.FromStringOrNil(req.ListID),
		Description: req.Description,
		DueDate:     req.DueDate,
		Labels:      req.Labels,
		AssignedTo:  assignedTo,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.invalidator.InvalidateBoard(task.BoardID)
	h.scheduleReminder(task)
	c.JSON(http.StatusCreated, gin.H{"success": true, "task": task})
}

// patchTaskRequest keeps dueDate and assignedTo as raw JSON so that an
// explicit null (clear the field) is distinguishable from an omitted
// field (leave it alone).
type patchTaskRequest struct {
	TaskID      string          `json:"taskId"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	DueDate     json.RawMessage `json:"dueDate"`
	Labels      *[]string       `json:"labels"`
	AssignedTo  json.RawMessage `json:"assignedTo"`
	ListID      *string         `json:"listId"`
}

func rawIsNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (h *TaskHandler) PatchTask(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req patchTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.TaskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing taskId"})
		return
	}

	patch := services.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}

	if req.DueDate != nil {
		patch.DueDateSet = true
		if !rawIsNull(req.DueDate) {
			var due time.Time
			if err := json.Unmarshal(req.DueDate, &due); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueDate"})
				return
			}
			patch.DueDate = &due
		}
	}

	if req.Labels != nil {
		patch.LabelsSet = true
		patch.Labels = *req.Labels
	}

	if req.AssignedTo != nil {
		patch.AssignedToSet = true
		if !rawIsNull(req.AssignedTo) {
			var idStr string
			if err := json.Unmarshal(req.AssignedTo, &idStr); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignedTo"})
				return
			}
			id, err := uuid.FromString(idStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignedTo"})
				return
			}
			patch.AssignedTo = &id
		}
	}

	if req.ListID != nil {
		listID, err := uuid.FromString(*req.ListID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listId"})
			return
		}
		patch.ListID = &listID
	}

	task, err := h.taskService.PatchTask(h.db, uuid.FromStringOrNil(req.TaskID), patch)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.invalidator.InvalidateBoard(task.BoardID)
	if patch.DueDateSet && patch.DueDate != nil {
		h.scheduleReminder(task)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req struct {
		TaskID string `json:"taskId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing taskId"})
		return
	}

	task, err := h.taskService.DeleteTask(h.db, uuid.FromStringOrNil(req.TaskID))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.invalidator.InvalidateBoard(task.BoardID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted successfully"})
}

// GetTasks serves GET /task. With ?assigned=true it returns the
// caller's assigned tasks enriched with current board and list titles.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if c.Query("assigned") != "true" {
		c.JSON(http.StatusOK, gin.H{"success": true, "tasks": []interface{}{}})
		return
	}

	tasks, err := h.taskService.ListTasksAssignedTo(h.db, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks})
}

package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service services.TaskService
	boards  services.BoardService
	lists   services.ListService

	ownerID uuid.UUID
	boardID uuid.UUID
	listID  uuid.UUID
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = services.NewTaskService()
	suite.boards = services.NewBoardService()
	suite.lists = services.NewListService()
	suite.ownerID = uuid.Must(uuid.NewV4())

	board, err := suite.boards.CreateBoard(suite.db, suite.ownerID, "Board", "")
	suite.Require().NoError(err)
	suite.boardID = board.ID

	list, err := suite.lists.CreateList(suite.db, suite.ownerID, board.ID, "Backlog")
	suite.Require().NoError(err)
	suite.listID = list.ID
}

func (suite *TaskServiceTestSuite) newList(title string) uuid.UUID {
	list, err := suite.lists.CreateList(suite.db, suite.ownerID, suite.boardID, title)
	suite.Require().NoError(err)
	return list.ID
}

func (suite *TaskServiceTestSuite) newTask(title string) *models.Task {
	task, err := suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		Title:   title,
		BoardID: suite.boardID,
		ListID:  suite.listID,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskServiceTestSuite) TestCreateTaskDefaults() {
	task := suite.newTask("Ship it")
	suite.Equal("Ship it", task.Title)
	suite.Equal("", task.Description)
	suite.Nil(task.DueDate)
	suite.NotNil(task.Labels)
	suite.Empty(task.Labels)
	suite.Nil(task.AssignedTo)
}

func (suite *TaskServiceTestSuite) TestCreateTaskMissingFields() {
	_, err := suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		BoardID: suite.boardID,
		ListID:  suite.listID,
	})
	suite.ErrorIs(err, services.ErrInvalidInput)

	_, err = suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		Title:  "x",
		ListID: suite.listID,
	})
	suite.ErrorIs(err, services.ErrInvalidInput)

	_, err = suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		Title:   "x",
		BoardID: suite.boardID,
	})
	suite.ErrorIs(err, services.ErrInvalidInput)
}

func (suite *TaskServiceTestSuite) TestCreateTaskUnknownList() {
	_, err := suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		Title:   "x",
		BoardID: suite.boardID,
		ListID:  uuid.Must(uuid.NewV4()),
	})
	suite.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (suite *TaskServiceTestSuite) TestCreateTaskListBoardMismatch() {
	otherBoard, err := suite.boards.CreateBoard(suite.db, suite.ownerID, "Other", "")
	suite.Require().NoError(err)

	_, err = suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		Title:   "x",
		BoardID: otherBoard.ID,
		ListID:  suite.listID,
	})
	suite.ErrorIs(err, services.ErrInvalidInput)
}

func (suite *TaskServiceTestSuite) TestPatchTaskPartial() {
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	task, err := suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		Title:   "Original",
		BoardID: suite.boardID,
		ListID:  suite.listID,
		DueDate: &due,
		Labels:  []string{"urgent", "bug"},
	})
	suite.Require().NoError(err)

	desc := "new"
	patched, err := suite.service.PatchTask(suite.db, task.ID, services.TaskPatch{
		Description: &desc,
	})
	suite.Require().NoError(err)
	suite.Equal("new", patched.Description)
	suite.Equal("Original", patched.Title)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	suite.Equal("new", stored.Description)
	suite.Equal("Original", stored.Title)
	suite.Equal([]string{"urgent", "bug"}, stored.Labels)
	suite.Require().NotNil(stored.DueDate)
	suite.True(due.Equal(*stored.DueDate))
}

func (suite *TaskServiceTestSuite) TestPatchTaskClearsLabels() {
	task, err := suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		Title:   "x",
		BoardID: suite.boardID,
		ListID:  suite.listID,
		Labels:  []string{"urgent"},
	})
	suite.Require().NoError(err)

	// Labels provided and empty clears; labels omitted leaves alone.
	patched, err := suite.service.PatchTask(suite.db, task.ID, services.TaskPatch{
		Labels:    []string{},
		LabelsSet: true,
	})
	suite.Require().NoError(err)
	suite.Empty(patched.Labels)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	suite.Empty(stored.Labels)
}

func (suite *TaskServiceTestSuite) TestPatchTaskClearsDueDateAndAssignee() {
	due := time.Now().Add(time.Hour)
	assignee := uuid.Must(uuid.NewV4())
	task, err := suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		Title:      "x",
		BoardID:    suite.boardID,
		ListID:     suite.listID,
		DueDate:    &due,
		AssignedTo: &assignee,
	})
	suite.Require().NoError(err)

	patched, err := suite.service.PatchTask(suite.db, task.ID, services.TaskPatch{
		DueDateSet:    true,
		AssignedToSet: true,
	})
	suite.Require().NoError(err)
	suite.Nil(patched.DueDate)
	suite.Nil(patched.AssignedTo)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	suite.Nil(stored.DueDate)
	suite.Nil(stored.AssignedTo)
}

func (suite *TaskServiceTestSuite) TestPatchTaskNotFound() {
	title := "x"
	_, err := suite.service.PatchTask(suite.db, uuid.Must(uuid.NewV4()), services.TaskPatch{Title: &title})
	suite.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (suite *TaskServiceTestSuite) TestMoveTaskPlacement() {
	task := suite.newTask("movable")
	dest := suite.newList("Done")

	moved, err := suite.service.MoveTask(suite.db, task.ID, dest)
	suite.Require().NoError(err)
	suite.Equal(dest, moved.ListID)
	suite.Equal(task.BoardID, moved.BoardID)
	suite.Equal("movable", moved.Title)

	// The aggregate shows the task under the destination and nowhere
	// else.
	aggregate, err := suite.boards.GetBoardAggregate(suite.db, suite.boardID)
	suite.Require().NoError(err)
	for _, list := range aggregate.Lists {
		for _, item := range list.Tasks {
			if item.ID == task.ID {
				suite.Equal(dest, list.ID)
			}
		}
	}
}

func (suite *TaskServiceTestSuite) TestMoveTaskIdempotent() {
	task := suite.newTask("movable")
	dest := suite.newList("Done")

	first, err := suite.service.MoveTask(suite.db, task.ID, dest)
	suite.Require().NoError(err)
	second, err := suite.service.MoveTask(suite.db, task.ID, dest)
	suite.Require().NoError(err)
	suite.Equal(first.ListID, second.ListID)
}

func (suite *TaskServiceTestSuite) TestConcurrentMovesLastWriteWins() {
	task := suite.newTask("contested")
	dest1 := suite.newList("D1")
	dest2 := suite.newList("D2")

	var wg sync.WaitGroup
	wg.Add(2)
	for _, dest := range []uuid.UUID{dest1, dest2} {
		go func(d uuid.UUID) {
			defer wg.Done()
			_, err := suite.service.MoveTask(suite.db, task.ID, d)
			suite.NoError(err)
		}(dest)
	}
	wg.Wait()

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	suite.Contains([]uuid.UUID{dest1, dest2}, stored.ListID)
	suite.NotEqual(suite.listID, stored.ListID)
}

func (suite *TaskServiceTestSuite) TestDeleteTask() {
	task := suite.newTask("doomed")

	deleted, err := suite.service.DeleteTask(suite.db, task.ID)
	suite.Require().NoError(err)
	suite.Equal(task.ID, deleted.ID)

	_, err = suite.service.DeleteTask(suite.db, task.ID)
	suite.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (suite *TaskServiceTestSuite) TestAssignedTasksEnrichedAtReadTime() {
	assignee := uuid.Must(uuid.NewV4())
	task, err := suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		Title:      "review",
		BoardID:    suite.boardID,
		ListID:     suite.listID,
		AssignedTo: &assignee,
	})
	suite.Require().NoError(err)

	// Rename the list after creation; enrichment must reflect the
	// current title, not the one at creation time.
	renamed := "In Review"
	_, err = suite.lists.PatchList(suite.db, suite.listID, services.ListPatch{Title: &renamed})
	suite.Require().NoError(err)

	enriched, err := suite.service.ListTasksAssignedTo(suite.db, assignee)
	suite.Require().NoError(err)
	suite.Require().Len(enriched, 1)
	suite.Equal(task.ID, enriched[0].ID)
	suite.Equal("Board", enriched[0].BoardTitle)
	suite.Equal("In Review", enriched[0].ListTitle)
}

func (suite *TaskServiceTestSuite) TestAssignedTasksUnknownParents() {
	assignee := uuid.Must(uuid.NewV4())
	_, err := suite.service.CreateTask(suite.db, suite.ownerID, services.TaskInput{
		Title:      "orphan",
		BoardID:    suite.boardID,
		ListID:     suite.listID,
		AssignedTo: &assignee,
	})
	suite.Require().NoError(err)

	// Drop the parents directly; the read path falls back to
	// placeholder titles.
	suite.Require().NoError(suite.db.Where("id = ?", suite.listID).Delete(&models.List{}).Error)
	suite.Require().NoError(suite.db.Where("id = ?", suite.boardID).Delete(&models.Board{}).Error)

	enriched, err := suite.service.ListTasksAssignedTo(suite.db, assignee)
	suite.Require().NoError(err)
	suite.Require().Len(enriched, 1)
	suite.Equal("Unknown Board", enriched[0].BoardTitle)
	suite.Equal("Unknown List", enriched[0].ListTitle)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

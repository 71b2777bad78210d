package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/handlers"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockListService struct {
	mock.Mock
}

func (m *MockListService) CreateList(db *gorm.DB, ownerID, boardID uuid.UUID, title string) (*models.List, error) {
	args := m.Called(db, ownerID, boardID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.List), args.Error(1)
}

func (m *MockListService) PatchList(db *gorm.DB, listID uuid.UUID, patch services.ListPatch) (*models.List, error) {
	args := m.Called(db, listID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.List), args.Error(1)
}

func (m *MockListService) DeleteList(db *gorm.DB, listID uuid.UUID) (*models.List, error) {
	args := m.Called(db, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.List), args.Error(1)
}

func newListRouter(svc services.ListService, inv *recordingInvalidator, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewListHandler(nil, svc, inv)

	r := gin.New()
	auth := r.Group("/", asUser(userID))
	auth.POST("/list", h.CreateList)
	auth.PATCH("/list", h.PatchList)
	auth.DELETE("/list", h.DeleteList)
	return r
}

func TestCreateListHandler(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	boardID := uuid.Must(uuid.NewV4())
	listID := uuid.Must(uuid.NewV4())

	mockSvc := new(MockListService)
	mockSvc.On("CreateList", mock.Anything, userID, boardID, "To Do").
		Return(&models.List{ID: listID, Title: "To Do", BoardID: boardID, UserID: userID}, nil)

	inv := &recordingInvalidator{}
	r := newListRouter(mockSvc, inv, userID)

	req := httptest.NewRequest(http.MethodPost, "/list", jsonBody(t, gin.H{
		"title":   "To Do",
		"boardId": boardID.String(),
	}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{boardID}, inv.boards)
	mockSvc.AssertExpectations(t)
}

func TestCreateListHandlerUnknownBoard(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	boardID := uuid.Must(uuid.NewV4())

	mockSvc := new(MockListService)
	mockSvc.On("CreateList", mock.Anything, userID, boardID, "Orphan").
		Return(nil, gorm.ErrRecordNotFound)

	inv := &recordingInvalidator{}
	r := newListRouter(mockSvc, inv, userID)

	req := httptest.NewRequest(http.MethodPost, "/list", jsonBody(t, gin.H{
		"title":   "Orphan",
		"boardId": boardID.String(),
	}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, inv.boards)
}

func TestPatchListHandlerMissingID(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	mockSvc := new(MockListService)
	r := newListRouter(mockSvc, &recordingInvalidator{}, userID)

	req := httptest.NewRequest(http.MethodPatch, "/list", jsonBody(t, gin.H{"title": "Renamed"}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "PatchList")
}

func TestDeleteListHandler(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	boardID := uuid.Must(uuid.NewV4())
	listID := uuid.Must(uuid.NewV4())

	mockSvc := new(MockListService)
	mockSvc.On("DeleteList", mock.Anything, listID).
		Return(&models.List{ID: listID, Title: "Done", BoardID: boardID}, nil)

	inv := &recordingInvalidator{}
	r := newListRouter(mockSvc, inv, userID)

	req := httptest.NewRequest(http.MethodDelete, "/list", jsonBody(t, gin.H{"listId": listID.String()}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{boardID}, inv.boards)
}

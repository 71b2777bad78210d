package handlers

import (
	"net/http"

	"taskboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type ListHandler struct {
	db          *gorm.DB
	listService services.ListService
	invalidator services.AggregateInvalidator
}

func NewListHandler(db *gorm.DB, listService services.ListService, invalidator services.AggregateInvalidator) *ListHandler {
	return &ListHandler{db: db, listService: listService, invalidator: invalidator}
}

func (h *ListHandler) CreateList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Title   string `json:"title"`
		BoardID string `json:"boardId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	list, err := h.listService.CreateList(h.db, userID, uuid.FromStringOrNil(req.BoardID), req.Title)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.invalidator.InvalidateBoard(list.BoardID)
	c.JSON(http.StatusOK, gin.H{"success": true, "list": list})
}

func (h *ListHandler) PatchList(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req struct {
		ListID string  `json:"listId"`
		Title  *string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ListID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing listId"})
		return
	}

	list, err := h.listService.PatchList(h.db, uuid.FromStringOrNil(req.ListID), services.ListPatch{
		Title: req.Title,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.invalidator.InvalidateBoard(list.BoardID)
	c.JSON(http.StatusOK, gin.H{"success": true, "list": list})
}

func (h *ListHandler) DeleteList(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req struct {
		ListID string `json:"listId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ListID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing listId"})
		return
	}

	list, err := h.listService.DeleteList(h.db, uuid.FromStringOrNil(req.ListID))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.invalidator.InvalidateBoard(list.BoardID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package handlers

import (
	"net/http"

	"taskboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type BoardHandler struct {
	db           *gorm.DB
	boardService services.BoardService
}

func NewBoardHandler(db *gorm.DB, boardService services.BoardService) *BoardHandler {
	return &BoardHandler{db: db, boardService: boardService}
}

func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Title           string `json:"title" binding:"required"`
		BackgroundColor string `json:"backgroundColor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing title"})
		return
	}

	board, err := h.boardService.CreateBoard(h.db, userID, req.Title, req.BackgroundColor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "board": board})
}

func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		BoardID string `json:"boardId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.BoardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing boardId"})
		return
	}

	boardID, err := uuid.FromString(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid boardId"})
		return
	}

	if err := h.boardService.DeleteBoard(h.db, boardID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetBoard returns the full nested view: the board, its lists and
// each list's tasks.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	boardID := uuid.FromStringOrNil(c.Param("id"))

	aggregate, err := h.boardService.GetBoardAggregate(h.db, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

func (h *BoardHandler) PatchBoard(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	boardID := uuid.FromStringOrNil(c.Param("id"))

	var req struct {
		Title           *string `json:"title"`
		BackgroundColor *string `json:"backgroundColor"`
		IsStarred       *bool   `json:"isStarred"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	board, err := h.boardService.PatchBoard(h.db, boardID, services.BoardPatch{
		Title:           req.Title,
		BackgroundColor: req.BackgroundColor,
		IsStarred:       req.IsStarred,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "board": board})
}

func (h *BoardHandler) GetWorkspace(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardService.ListBoardsForUser(h.db, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, boards)
}

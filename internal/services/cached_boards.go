package services

import (
	"fmt"
	"time"

	"taskboard/internal/cache"
	"taskboard/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	boardAggregateTTL = 10 * time.Minute
	workspaceTTL      = 5 * time.Minute
)

// AggregateInvalidator lets list and task handlers drop a stale board
// aggregate after they mutate the board's children.
type AggregateInvalidator interface {
	InvalidateBoard(boardID uuid.UUID)
}

// CachedBoardService decorates a BoardService with a redis-backed
// read cache. Cache failures are never surfaced; every miss or error
// falls through to the database.
type CachedBoardService struct {
	inner BoardService
	cache cache.Store
}

func NewCachedBoardService(inner BoardService, store cache.Store) *CachedBoardService {
	return &CachedBoardService{inner: inner, cache: store}
}

func boardAggregateKey(boardID uuid.UUID) string {
	return fmt.Sprintf("board_aggregate:%s", boardID)
}

func workspaceKey(userID uuid.UUID) string {
	return fmt.Sprintf("workspace:%s", userID)
}

func (s *CachedBoardService) InvalidateBoard(boardID uuid.UUID) {
	s.cache.Delete(boardAggregateKey(boardID))
}

func (s *CachedBoardService) GetBoardAggregate(db *gorm.DB, boardID uuid.UUID) (*models.BoardAggregate, error) {
	var cached models.BoardAggregate
	if err := s.cache.Get(boardAggregateKey(boardID), &cached); err == nil {
		return &cached, nil
	}

	aggregate, err := s.inner.GetBoardAggregate(db, boardID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(boardAggregateKey(boardID), aggregate, boardAggregateTTL)
	return aggregate, nil
}

func (s *CachedBoardService) ListBoardsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Board, error) {
	var cached []models.Board
	if err := s.cache.Get(workspaceKey(userID), &cached); err == nil {
		return cached, nil
	}

	boards, err := s.inner.ListBoardsForUser(db, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(workspaceKey(userID), boards, workspaceTTL)
	return boards, nil
}

func (s *CachedBoardService) CreateBoard(db *gorm.DB, ownerID uuid.UUID, title, backgroundColor string) (*models.Board, error) {
	board, err := s.inner.CreateBoard(db, ownerID, title, backgroundColor)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(workspaceKey(ownerID))
	return board, nil
}

func (s *CachedBoardService) PatchBoard(db *gorm.DB, boardID uuid.UUID, patch BoardPatch) (*models.Board, error) {
	board, err := s.inner.PatchBoard(db, boardID, patch)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(boardAggregateKey(boardID))
	s.cache.Delete(workspaceKey(board.UserID))
	return board, nil
}

func (s *CachedBoardService) DeleteBoard(db *gorm.DB, boardID, requesterID uuid.UUID) error {
	if err := s.inner.DeleteBoard(db, boardID, requesterID); err != nil {
		return err
	}

	s.cache.Delete(boardAggregateKey(boardID))
	s.cache.Delete(workspaceKey(requesterID))
	return nil
}

// Package cache puts a Redis read-through cache in front of board listings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
)

// BoardRepository caches ListForUser per user and evicts the affected users'
// entries on every write that changes what they see. Redis failures fall back
// to the wrapped repository.
type BoardRepository struct {
	repository.BoardRepository
	redis *redis.Client
	ttl   time.Duration
}

// NewBoardRepository wraps base. A nil client or zero ttl disables caching.
func NewBoardRepository(base repository.BoardRepository, client *redis.Client, ttl time.Duration) *BoardRepository {
	if base == nil {
		panic("cache.NewBoardRepository: base repository is nil")
	}
	if ttl < 0 {
		ttl = 0
	}

	return &BoardRepository{
		BoardRepository: base,
		redis:           client,
		ttl:             ttl,
	}
}

func (c *BoardRepository) ListForUser(ctx context.Context, userID string) ([]models.Board, error) {
	if boards, ok := c.load(ctx, userID); ok {
		return boards, nil
	}

	boards, err := c.BoardRepository.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.store(ctx, userID, boards)
	return boards, nil
}

func (c *BoardRepository) Create(ctx context.Context, board *models.Board) error {
	if err := c.BoardRepository.Create(ctx, board); err != nil {
		return err
	}

	c.evict(ctx, board.OwnerID)
	return nil
}

func (c *BoardRepository) Update(ctx context.Context, board *models.Board) error {
	if err := c.BoardRepository.Update(ctx, board); err != nil {
		return err
	}

	c.evictBoard(ctx, board.ID, board.OwnerID)
	return nil
}

func (c *BoardRepository) Delete(ctx context.Context, id string) error {
	// Collect audience before the member rows disappear.
	var audience []string
	if !c.enabled() {
		return c.BoardRepository.Delete(ctx, id)
	}
	if board, err := c.BoardRepository.FindByID(ctx, id); err == nil {
		audience = boardAudience(board)
	}

	if err := c.BoardRepository.Delete(ctx, id); err != nil {
		return err
	}

	c.evict(ctx, audience...)
	return nil
}

func (c *BoardRepository) AddMember(ctx context.Context, member *models.BoardMember) error {
	if err := c.BoardRepository.AddMember(ctx, member); err != nil {
		return err
	}

	c.evict(ctx, member.UserID)
	return nil
}

func (c *BoardRepository) RemoveMember(ctx context.Context, boardID, userID string) error {
	if err := c.BoardRepository.RemoveMember(ctx, boardID, userID); err != nil {
		return err
	}

	c.evict(ctx, userID)
	return nil
}

func (c *BoardRepository) evictBoard(ctx context.Context, boardID string, ownerID string) {
	if !c.enabled() {
		return
	}
	audience := []string{ownerID}
	if board, err := c.BoardRepository.FindByID(ctx, boardID); err == nil {
		audience = boardAudience(board)
	}
	c.evict(ctx, audience...)
}

func (c *BoardRepository) enabled() bool {
	return c.redis != nil && c.ttl > 0
}

func (c *BoardRepository) load(ctx context.Context, userID string) ([]models.Board, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.redis.Get(ctx, boardsCacheKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).WithField("user_id", userID).Warn("board cache read failed")
			_ = c.redis.Del(ctx, boardsCacheKey(userID)).Err()
		}
		return nil, false
	}
	var boards []models.Board
	if err := json.Unmarshal(data, &boards); err != nil {
		_ = c.redis.Del(ctx, boardsCacheKey(userID)).Err()
		return nil, false
	}
	return boards, true
}

func (c *BoardRepository) store(ctx context.Context, userID string, boards []models.Board) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(boards)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, boardsCacheKey(userID), data, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("board cache write failed")
	}
}

func (c *BoardRepository) evict(ctx context.Context, userIDs ...string) {
	if !c.enabled() || len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = boardsCacheKey(id)
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.WithError(err).Warn("board cache eviction failed")
	}
}

func boardAudience(board *models.Board) []string {
	ids := make([]string, 0, len(board.Members)+1)
	ids = append(ids, board.OwnerID)
	for _, m := range board.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func boardsCacheKey(userID string) string {
	return "boards:" + userID
}

package inmemory

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/sharetube/embedplayer/internal/repository/player"
	"golang.org/x/exp/maps"
)

// repo keeps live player instances of type T by id.
type repo[T any] struct {
	players map[string]T
	mu      sync.RWMutex
	logger  *slog.Logger
}

func NewRepo[T any](logger *slog.Logger) *repo[T] {
	return &repo[T]{
		players: make(map[string]T),
		logger:  logger,
	}
}

func (r *repo[T]) Add(playerID string, instance T) error {
	funcName := "player.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "player_id", playerID)
	if _, ok := r.players[playerID]; ok {
		r.logger.Info(funcName, "error", player.ErrPlayerAlreadyExists)
		return player.ErrPlayerAlreadyExists
	}

	r.players[playerID] = instance

	r.logger.Debug(funcName, "result", "OK")
	return nil
}

func (r *repo[T]) Get(playerID string) (T, error) {
	funcName := "player.inmemory.Get"
	r.mu.RLock()
	defer r.mu.RUnlock()

	instance, ok := r.players[playerID]
	if !ok {
		r.logger.Debug(funcName, "player_id", playerID, "error", player.ErrPlayerNotFound)
		return instance, player.ErrPlayerNotFound
	}

	return instance, nil
}

func (r *repo[T]) Remove(playerID string) (T, error) {
	funcName := "player.inmemory.Remove"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "player_id", playerID)
	instance, ok := r.players[playerID]
	if !ok {
		r.logger.Info(funcName, "error", player.ErrPlayerNotFound)
		return instance, player.ErrPlayerNotFound
	}

	delete(r.players, playerID)

	r.logger.Debug(funcName, "result", "OK")
	return instance, nil
}

// IDs returns the ids of all live players in ascending order.
func (r *repo[T]) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := maps.Keys(r.players)
	sort.Strings(ids)

	return ids
}

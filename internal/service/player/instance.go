package player

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sharetube/embedplayer/internal/bridge"
	"github.com/sharetube/embedplayer/internal/domain"
	"github.com/sharetube/embedplayer/internal/lifecycle"
	"github.com/sharetube/embedplayer/internal/playerpage"
	"github.com/sharetube/embedplayer/internal/store"
	"github.com/sharetube/embedplayer/internal/surface"
)

// Instance is one embedded player: its value store, the bridge registry
// feeding it and the command channel to the page hosting it.
type Instance struct {
	id        string
	options   playerpage.Options
	store     *store.Store
	registry  *bridge.Registry
	channel   *surface.Channel
	lifecycle *lifecycle.Adapter
	logger    *slog.Logger

	// guards surface attachment and the opening of the channel
	mu sync.Mutex
}

func (i *Instance) Value() domain.PlayerValue {
	return i.store.Value()
}

func (i *Instance) Play(ctx context.Context) error {
	return i.channel.Send(ctx, playerpage.Play())
}

func (i *Instance) Pause(ctx context.Context) error {
	return i.channel.Send(ctx, playerpage.Pause())
}

func (i *Instance) attach(ctx context.Context, s surface.Surface) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.registry.Reset(ctx)
	i.channel.Attach(s)
}

func (i *Instance) detach(s surface.Surface) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.channel.Detach(s)
}

// open flushes queued commands once the player reports ready. Only called
// when readiness turns true, never from within a command evaluation.
func (i *Instance) open(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.store.Value().IsReady {
		return nil
	}

	return i.channel.Open(ctx)
}

func (i *Instance) close() {
	i.store.Close()
}

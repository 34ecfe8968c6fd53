package controller

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/embedplayer/internal/domain"
	"github.com/sharetube/embedplayer/internal/lifecycle"
	"github.com/sharetube/embedplayer/internal/service/player"
	"github.com/sharetube/embedplayer/internal/surface"
	"github.com/sharetube/embedplayer/pkg/validator"
)

type iPlayerService interface {
	CreatePlayer(context.Context, *player.CreatePlayerParams) (player.CreatePlayerResponse, error)
	ListPlayers(context.Context) []string
	GetValue(ctx context.Context, playerID string) (domain.PlayerValue, error)
	Subscribe(ctx context.Context, playerID string) (<-chan domain.PlayerValue, func(), error)
	RemovePlayer(ctx context.Context, playerID string) error
	RenderPage(ctx context.Context, playerID string, w io.Writer) error
	GetSurfaceSettings(ctx context.Context, playerID string) (player.SurfaceSettings, error)
	// bridge
	AttachSurface(ctx context.Context, playerID string, s surface.Surface) error
	DetachSurface(ctx context.Context, playerID string, s surface.Surface) error
	PageLoaded(ctx context.Context, playerID string) error
	HandleBridgeMessage(ctx context.Context, playerID, name string, args json.RawMessage) error
	Navigate(context.Context, *player.NavigateParams) (player.NavigateResponse, error)
	HandleLifecycle(ctx context.Context, playerID string, transition lifecycle.Transition) error
	// commands
	Play(ctx context.Context, playerID string) error
	Pause(ctx context.Context, playerID string) error
	Stop(ctx context.Context, playerID string) error
	SeekTo(context.Context, *player.SeekToParams) error
	LoadByID(context.Context, *player.VideoParams) error
	CueByID(context.Context, *player.VideoParams) error
	LoadPlaylist(context.Context, *player.PlaylistParams) error
	CuePlaylist(context.Context, *player.PlaylistParams) error
	Mute(ctx context.Context, playerID string) error
	UnMute(ctx context.Context, playerID string) error
	SetVolume(ctx context.Context, playerID string, volume int) error
	SetPlaybackRate(ctx context.Context, playerID string, rate float64) error
	SetSize(ctx context.Context, playerID string, width, height float64) error
	SetTopMargin(ctx context.Context, playerID, margin string) error
	EnterFullscreen(ctx context.Context, playerID string) error
	ExitFullscreen(ctx context.Context, playerID string) error
	Eval(ctx context.Context, playerID, script string) error
}

type controller struct {
	playerService iPlayerService
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
	writeTimeout  time.Duration
	commands      map[string]commandHandler
}

func NewController(playerService iPlayerService, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		playerService: playerService,
		validate:      validator.NewValidator(),
		logger:        logger,
		writeTimeout:  10 * time.Second,
	}
	c.commands = c.getCommands()

	return c
}

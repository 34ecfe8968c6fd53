package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/sharetube/embedplayer/internal/bridge"
	"github.com/sharetube/embedplayer/internal/domain"
	"github.com/sharetube/embedplayer/internal/lifecycle"
	"github.com/sharetube/embedplayer/internal/navigation"
	"github.com/sharetube/embedplayer/internal/playerpage"
	"github.com/sharetube/embedplayer/internal/store"
	"github.com/sharetube/embedplayer/internal/surface"
	"github.com/sharetube/embedplayer/pkg/ytvideodata"
)

var (
	ErrInvalidVideo    = errors.New("invalid video id or url")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyScript     = errors.New("script is empty")
)

// DesktopUserAgent is announced by surfaces running in desktop mode so the
// player serves its desktop layout and quality options.
const DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

const subscriberBuffer = 16

type iPlayerRepo interface {
	Add(playerID string, instance *Instance) error
	Get(playerID string) (*Instance, error)
	Remove(playerID string) (*Instance, error)
	IDs() []string
}

type iSnapshotRepo interface {
	SaveSnapshot(ctx context.Context, playerID string, value domain.PlayerValue) error
	RemoveSnapshot(ctx context.Context, playerID string) error
}

type iMetaDataFetcher interface {
	Get(ctx context.Context, videoID string) (*ytvideodata.VideoData, error)
}

type Config struct {
	// PublicURL is the externally reachable http(s) root of the server.
	PublicURL         string
	PrivacyEnhanced   bool
	HybridComposition bool
	DesktopMode       bool
}

type service struct {
	playerRepo   iPlayerRepo
	snapshotRepo iSnapshotRepo
	fetcher      iMetaDataFetcher
	opener       navigation.URLOpener
	config       Config
	logger       *slog.Logger
}

type Option func(*service)

// WithSnapshotRepo mirrors every published value of every player.
func WithSnapshotRepo(repo iSnapshotRepo) Option {
	return func(s *service) {
		s.snapshotRepo = repo
	}
}

// WithMetaDataFetcher seeds the metadata of new players before the player
// reports it.
func WithMetaDataFetcher(fetcher iMetaDataFetcher) Option {
	return func(s *service) {
		s.fetcher = fetcher
	}
}

func NewService(playerRepo iPlayerRepo, opener navigation.URLOpener, config Config, logger *slog.Logger, opts ...Option) *service {
	s := service{
		playerRepo: playerRepo,
		opener:     opener,
		config:     config,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return &s
}

type CreatePlayerParams struct {
	// VideoID is a bare video id or any watch, shorts, embed or short link.
	VideoID         string
	AutoPlay        bool
	Mute            bool
	Loop            bool
	ShowControls    bool
	EnableCaption   bool
	CaptionLanguage string
	StartAt         int
	EndAt           int
}

type CreatePlayerResponse struct {
	PlayerID  string             `json:"player_id"`
	PageURL   string             `json:"page_url"`
	BridgeURL string             `json:"bridge_url"`
	Value     domain.PlayerValue `json:"value"`
}

func (s service) CreatePlayer(ctx context.Context, params *CreatePlayerParams) (CreatePlayerResponse, error) {
	videoID, ok := convertVideoID(params.VideoID)
	if !ok {
		return CreatePlayerResponse{}, fmt.Errorf("%w: %q", ErrInvalidVideo, params.VideoID)
	}
	if params.StartAt < 0 || params.EndAt < 0 || (params.EndAt > 0 && params.EndAt <= params.StartAt) {
		return CreatePlayerResponse{}, fmt.Errorf("%w: start %d end %d", ErrInvalidArgument, params.StartAt, params.EndAt)
	}

	playerID := uuid.NewString()
	initial := domain.NewPlayerValue().
		WithMuted(params.Mute).
		WithMetaData(s.prefetchMetaData(ctx, videoID))

	opts := playerpage.Options{
		VideoID:         videoID,
		BaseURL:         playerpage.BaseURL(s.config.PrivacyEnhanced),
		AutoPlay:        params.AutoPlay,
		Mute:            params.Mute,
		Loop:            params.Loop,
		ShowControls:    params.ShowControls,
		EnableCaption:   params.EnableCaption,
		CaptionLanguage: params.CaptionLanguage,
		StartAt:         params.StartAt,
		EndAt:           params.EndAt,
		BridgeURL:       s.bridgeURL(playerID),
	}

	inst := newInstance(playerID, opts, initial, s.logger.With("player_id", playerID))
	if err := s.playerRepo.Add(playerID, inst); err != nil {
		return CreatePlayerResponse{}, fmt.Errorf("failed to add player: %w", err)
	}

	if s.snapshotRepo != nil {
		s.mirror(inst)
	}

	s.logger.InfoContext(ctx, "player created", "player_id", playerID, "video_id", videoID)

	return CreatePlayerResponse{
		PlayerID:  playerID,
		PageURL:   s.pageURL(playerID),
		BridgeURL: opts.BridgeURL,
		Value:     inst.store.Value(),
	}, nil
}

func (s service) prefetchMetaData(ctx context.Context, videoID string) domain.MetaData {
	metaData := domain.MetaData{VideoID: videoID}
	if s.fetcher == nil {
		return metaData
	}

	videoData, err := s.fetcher.Get(ctx, videoID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to prefetch video data", "video_id", videoID, "error", err)
		return metaData
	}

	metaData.Title = videoData.Title
	metaData.Author = videoData.AuthorName
	return metaData
}

// mirror copies every value the player publishes to the snapshot repository
// until the player is removed.
func (s service) mirror(inst *Instance) {
	values, _ := inst.store.Subscribe(subscriberBuffer)
	go func() {
		ctx := context.Background()
		for value := range values {
			if err := s.snapshotRepo.SaveSnapshot(ctx, inst.id, value); err != nil {
				inst.logger.ErrorContext(ctx, "failed to save snapshot", "error", err)
			}
		}

		if err := s.snapshotRepo.RemoveSnapshot(ctx, inst.id); err != nil {
			inst.logger.ErrorContext(ctx, "failed to remove snapshot", "error", err)
		}
	}()
}

func (s service) getInstance(playerID string) (*Instance, error) {
	inst, err := s.playerRepo.Get(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return inst, nil
}

func (s service) GetValue(ctx context.Context, playerID string) (domain.PlayerValue, error) {
	inst, err := s.getInstance(playerID)
	if err != nil {
		return domain.PlayerValue{}, err
	}

	return inst.store.Value(), nil
}

func (s service) ListPlayers(ctx context.Context) []string {
	return s.playerRepo.IDs()
}

// Subscribe streams the player's values, starting with the current one. The
// channel is closed by cancel or when the player is removed.
func (s service) Subscribe(ctx context.Context, playerID string) (<-chan domain.PlayerValue, func(), error) {
	inst, err := s.getInstance(playerID)
	if err != nil {
		return nil, nil, err
	}

	values, cancel := inst.store.Subscribe(subscriberBuffer)
	return values, cancel, nil
}

func (s service) RemovePlayer(ctx context.Context, playerID string) error {
	inst, err := s.playerRepo.Remove(playerID)
	if err != nil {
		return fmt.Errorf("failed to remove player: %w", err)
	}

	inst.close()
	s.logger.InfoContext(ctx, "player removed", "player_id", playerID)

	return nil
}

// RenderPage writes the player document of playerID.
func (s service) RenderPage(ctx context.Context, playerID string, w io.Writer) error {
	inst, err := s.getInstance(playerID)
	if err != nil {
		return err
	}

	if err := playerpage.Render(w, inst.options); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	return nil
}

type SurfaceSettings struct {
	PageURL           string `json:"page_url"`
	BaseURL           string `json:"base_url"`
	UserAgent         string `json:"user_agent,omitempty"`
	HybridComposition bool   `json:"hybrid_composition"`
}

// GetSurfaceSettings describes how a native host should configure the view
// that loads the player page.
func (s service) GetSurfaceSettings(ctx context.Context, playerID string) (SurfaceSettings, error) {
	inst, err := s.getInstance(playerID)
	if err != nil {
		return SurfaceSettings{}, err
	}

	settings := SurfaceSettings{
		PageURL:           s.pageURL(playerID),
		BaseURL:           inst.options.BaseURL,
		HybridComposition: s.config.HybridComposition,
	}
	if s.config.DesktopMode {
		settings.UserAgent = DesktopUserAgent
	}

	return settings, nil
}

func (s service) pageURL(playerID string) string {
	return strings.TrimRight(s.config.PublicURL, "/") + "/api/v1/players/" + playerID + "/page"
}

func (s service) bridgeURL(playerID string) string {
	base := strings.TrimRight(s.config.PublicURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}

	return base + "/api/v1/ws/players/" + playerID + "/bridge"
}

func newInstance(playerID string, opts playerpage.Options, initial domain.PlayerValue, logger *slog.Logger) *Instance {
	valueStore := store.New(initial)
	inst := &Instance{
		id:       playerID,
		options:  opts,
		store:    valueStore,
		registry: bridge.NewRegistry(valueStore, logger),
		channel:  surface.NewChannel(),
		logger:   logger,
	}
	inst.lifecycle = lifecycle.NewAdapter(inst, logger)

	return inst
}

func convertVideoID(raw string) (string, bool) {
	return ytvideodata.ConvertURLToID(raw)
}

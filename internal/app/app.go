package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sharetube/embedplayer/internal/controller"
	"github.com/sharetube/embedplayer/internal/navigation"
	"github.com/sharetube/embedplayer/internal/repository/player/inmemory"
	snapshotRedis "github.com/sharetube/embedplayer/internal/repository/snapshot/redis"
	"github.com/sharetube/embedplayer/internal/service/player"
	"github.com/sharetube/embedplayer/pkg/ctxlogger"
	"github.com/sharetube/embedplayer/pkg/redisclient"
	"github.com/sharetube/embedplayer/pkg/ytvideodata"
)

type AppConfig struct {
	Host              string        `json:"host"`
	Port              int           `json:"port"`
	LogLevel          string        `json:"log_level"`
	PublicURL         string        `json:"public_url"`
	PrivacyEnhanced   bool          `json:"privacy_enhanced"`
	HybridComposition bool          `json:"hybrid_composition"`
	DesktopMode       bool          `json:"desktop_mode"`
	OpenExternal      bool          `json:"open_external"`
	PrefetchMetaData  bool          `json:"prefetch_meta_data"`
	RedisEnabled      bool          `json:"redis_enabled"`
	RedisHost         string        `json:"redis_host"`
	RedisPort         int           `json:"redis_port"`
	RedisPassword     string        `json:"-"`
	RedisExpire       time.Duration `json:"redis_expire"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}

	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	publicURL, err := url.Parse(cfg.PublicURL)
	if err != nil || (publicURL.Scheme != "http" && publicURL.Scheme != "https") || publicURL.Host == "" {
		return fmt.Errorf("public url must be an absolute http(s) url, got %q", cfg.PublicURL)
	}

	if cfg.RedisEnabled {
		if cfg.RedisHost == "" {
			return errors.New("redis host is required when redis is enabled")
		}
		if cfg.RedisExpire <= 0 {
			return fmt.Errorf("redis expire must be greater than 0, got %s", cfg.RedisExpire)
		}
	}

	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return logLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return logLevel, nil
}

func newLogger(cfg *AppConfig) (*slog.Logger, error) {
	logLevel, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h), nil
}

// newHandler wires repositories, service and controller. cleanup releases
// what it opened.
func newHandler(ctx context.Context, cfg *AppConfig, logger *slog.Logger) (http.Handler, func(), error) {
	cleanup := func() {}

	var opener navigation.URLOpener = navigation.LogOpener{Logger: logger}
	if cfg.OpenExternal {
		opener = navigation.SystemOpener{Logger: logger}
	}

	var opts []player.Option
	if cfg.PrefetchMetaData {
		opts = append(opts, player.WithMetaDataFetcher(ytvideodata.New()))
	}

	if cfg.RedisEnabled {
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Port:     cfg.RedisPort,
			Host:     cfg.RedisHost,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to create redis client: %w", err)
		}
		cleanup = func() { rc.Close() }

		opts = append(opts, player.WithSnapshotRepo(snapshotRedis.NewRepo(rc, cfg.RedisExpire)))
	}

	playerRepo := inmemory.NewRepo[*player.Instance](logger)
	playerService := player.NewService(playerRepo, opener, player.Config{
		PublicURL:         cfg.PublicURL,
		PrivacyEnhanced:   cfg.PrivacyEnhanced,
		HybridComposition: cfg.HybridComposition,
		DesktopMode:       cfg.DesktopMode,
	}, logger, opts...)

	return controller.NewController(playerService, logger).GetMux(), cleanup, nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	handler, cleanup, err := newHandler(ctx, cfg, logger)
	defer cleanup()
	if err != nil {
		return err
	}

	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: handler}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr, "public_url", cfg.PublicURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}

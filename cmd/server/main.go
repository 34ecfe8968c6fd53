package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/embedplayer/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
		usage:        "Server host",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 8080,
		usage:        "Server port",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	publicURL = configVar[string]{
		envKey:       "SERVER_PUBLIC_URL",
		flagKey:      "public-url",
		defaultValue: "http://localhost:8080",
		usage:        "Externally reachable root of the server, used in page and bridge urls",
	}
	privacyEnhanced = configVar[bool]{
		envKey:       "PLAYER_PRIVACY_ENHANCED",
		flagKey:      "privacy-enhanced",
		defaultValue: false,
		usage:        "Load the player from the privacy-enhanced (no cookie) host",
	}
	hybridComposition = configVar[bool]{
		envKey:       "PLAYER_HYBRID_COMPOSITION",
		flagKey:      "hybrid-composition",
		defaultValue: true,
		usage:        "Ask native hosts to compose the player view with hybrid composition",
	}
	desktopMode = configVar[bool]{
		envKey:       "PLAYER_DESKTOP_MODE",
		flagKey:      "desktop-mode",
		defaultValue: false,
		usage:        "Ask surfaces to announce a desktop user agent",
	}
	openExternal = configVar[bool]{
		envKey:       "PLAYER_OPEN_EXTERNAL",
		flagKey:      "open-external",
		defaultValue: false,
		usage:        "Open external links with the system handler instead of only reporting them",
	}
	prefetchMetaData = configVar[bool]{
		envKey:       "PLAYER_PREFETCH_META_DATA",
		flagKey:      "prefetch-meta-data",
		defaultValue: false,
		usage:        "Look up title and author of new players before the player reports them",
	}
	redisEnabled = configVar[bool]{
		envKey:       "REDIS_ENABLED",
		flagKey:      "redis-enabled",
		defaultValue: false,
		usage:        "Mirror player values to redis",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
		usage:        "Redis host",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
		usage:        "Redis port",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
		usage:        "Redis password",
	}
	redisExpire = configVar[time.Duration]{
		envKey:       "REDIS_EXPIRE",
		flagKey:      "redis-expire",
		defaultValue: 24 * time.Hour,
		usage:        "Expiry of mirrored player values",
	}
)

func bind[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, host.usage)
	pflag.Int(port.flagKey, port.defaultValue, port.usage)
	pflag.String(logLevel.flagKey, logLevel.defaultValue, logLevel.usage)
	pflag.String(publicURL.flagKey, publicURL.defaultValue, publicURL.usage)
	pflag.Bool(privacyEnhanced.flagKey, privacyEnhanced.defaultValue, privacyEnhanced.usage)
	pflag.Bool(hybridComposition.flagKey, hybridComposition.defaultValue, hybridComposition.usage)
	pflag.Bool(desktopMode.flagKey, desktopMode.defaultValue, desktopMode.usage)
	pflag.Bool(openExternal.flagKey, openExternal.defaultValue, openExternal.usage)
	pflag.Bool(prefetchMetaData.flagKey, prefetchMetaData.defaultValue, prefetchMetaData.usage)
	pflag.Bool(redisEnabled.flagKey, redisEnabled.defaultValue, redisEnabled.usage)
	pflag.String(redisHost.flagKey, redisHost.defaultValue, redisHost.usage)
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, redisPort.usage)
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, redisPassword.usage)
	pflag.Duration(redisExpire.flagKey, redisExpire.defaultValue, redisExpire.usage)
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bind(host)
	bind(port)
	bind(logLevel)
	bind(publicURL)
	bind(privacyEnhanced)
	bind(hybridComposition)
	bind(desktopMode)
	bind(openExternal)
	bind(prefetchMetaData)
	bind(redisEnabled)
	bind(redisHost)
	bind(redisPort)
	bind(redisPassword)
	bind(redisExpire)

	config := &app.AppConfig{
		Host:              viper.GetString(host.flagKey),
		Port:              viper.GetInt(port.flagKey),
		LogLevel:          viper.GetString(logLevel.flagKey),
		PublicURL:         viper.GetString(publicURL.flagKey),
		PrivacyEnhanced:   viper.GetBool(privacyEnhanced.flagKey),
		HybridComposition: viper.GetBool(hybridComposition.flagKey),
		DesktopMode:       viper.GetBool(desktopMode.flagKey),
		OpenExternal:      viper.GetBool(openExternal.flagKey),
		PrefetchMetaData:  viper.GetBool(prefetchMetaData.flagKey),
		RedisEnabled:      viper.GetBool(redisEnabled.flagKey),
		RedisHost:         viper.GetString(redisHost.flagKey),
		RedisPort:         viper.GetInt(redisPort.flagKey),
		RedisPassword:     viper.GetString(redisPassword.flagKey),
		RedisExpire:       viper.GetDuration(redisExpire.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}

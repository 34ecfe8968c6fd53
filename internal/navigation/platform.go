package navigation

import (
	"strings"

	"github.com/mssola/useragent"
)

type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformAndroid
	PlatformIOS
	PlatformDesktop
)

func (p Platform) String() string {
	switch p {
	case PlatformAndroid:
		return "android"
	case PlatformIOS:
		return "ios"
	case PlatformDesktop:
		return "desktop"
	default:
		return "unknown"
	}
}

// DetectPlatform classifies the embedding surface from its User-Agent.
func DetectPlatform(userAgent string) Platform {
	if userAgent == "" {
		return PlatformUnknown
	}

	ua := useragent.New(userAgent)
	switch platform := ua.Platform(); {
	case platform == "iPhone" || platform == "iPad" || platform == "iPod":
		return PlatformIOS
	case strings.Contains(ua.OS(), "Android"):
		return PlatformAndroid
	case !ua.Mobile() && !ua.Bot():
		return PlatformDesktop
	default:
		return PlatformUnknown
	}
}

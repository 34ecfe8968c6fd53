package navigation

import (
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
)

func TestDecideSocialHost(t *testing.T) {
	for _, platform := range []Platform{PlatformUnknown, PlatformAndroid, PlatformIOS, PlatformDesktop} {
		d := Decide("https://m.facebook.com/sharer.php?u=https%3A%2F%2Fyoutu.be%2Fabc123&v=abc123", platform)
		assert.Equal(t, ActionCancel, d.Action)
		assert.Equal(t, "social", d.Category)
		assert.True(t, d.LoadVideoID.IsAbsent(), "social links never load internally")
		assert.Equal(t, "https://m.facebook.com/sharer.php?u=https%3A%2F%2Fyoutu.be%2Fabc123&v=abc123", d.ExternalURL.OrEmpty())
	}

	d := Decide("https://twitter.com/intent/tweet?feature=emb_title&v=abc", PlatformAndroid)
	assert.Equal(t, "social", d.Category)
	assert.True(t, d.ExternalURL.IsPresent())
	assert.True(t, d.LoadVideoID.IsAbsent())
}

func TestDecideInternalCategories(t *testing.T) {
	for _, feature := range []string{"emb_title", "emb_rel_pause", "emb_rel_end", "emb_info"} {
		d := Decide("https://www.youtube.com/watch?feature="+feature+"&v=abc123", PlatformAndroid)
		assert.Equal(t, ActionCancel, d.Action, feature)
		assert.Equal(t, mo.Some("abc123"), d.LoadVideoID, feature)
		assert.True(t, d.ExternalURL.IsAbsent(), feature)
	}

	d := Decide("https://www.youtube.com/watch?feature=emb_title", PlatformAndroid)
	assert.Equal(t, ActionCancel, d.Action)
	assert.True(t, d.LoadVideoID.IsAbsent())
}

func TestDecideExternalCategories(t *testing.T) {
	for _, feature := range []string{"emb_logo", "wl_button"} {
		raw := "https://www.youtube.com/watch?v=abc123&feature=" + feature
		d := Decide(raw, PlatformIOS)
		assert.Equal(t, ActionCancel, d.Action, feature)
		assert.Equal(t, mo.Some(raw), d.ExternalURL, feature)
		assert.True(t, d.LoadVideoID.IsAbsent(), feature)
	}
}

func TestDecideUnclassified(t *testing.T) {
	d := Decide("https://www.youtube.com/embed/abc123", PlatformIOS)
	assert.Equal(t, ActionAllow, d.Action)

	for _, platform := range []Platform{PlatformUnknown, PlatformAndroid, PlatformDesktop} {
		d := Decide("https://www.youtube.com/embed/abc123", platform)
		assert.Equal(t, ActionCancel, d.Action)
		assert.True(t, d.LoadVideoID.IsAbsent())
		assert.True(t, d.ExternalURL.IsAbsent())
	}

	d = Decide("https://www.youtube.com/watch?feature=something_new&v=abc", PlatformIOS)
	assert.Equal(t, ActionCancel, d.Action)
	assert.Equal(t, "something_new", d.Category)
	assert.True(t, d.LoadVideoID.IsAbsent())
	assert.True(t, d.ExternalURL.IsAbsent())
}

func TestDecideUnresolvable(t *testing.T) {
	for _, raw := range []string{"", "about:blank", "::not a url", "/relative/path?feature=emb_title&v=x"} {
		d := Decide(raw, PlatformIOS)
		assert.Equal(t, ActionCancel, d.Action, raw)
		assert.True(t, d.LoadVideoID.IsAbsent(), raw)
		assert.True(t, d.ExternalURL.IsAbsent(), raw)
	}
}

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		userAgent string
		want      Platform
	}{
		{"", PlatformUnknown},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148", PlatformIOS},
		{"Mozilla/5.0 (iPad; CPU OS 15_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148", PlatformIOS},
		{"Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Mobile Safari/537.36", PlatformAndroid},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36", PlatformDesktop},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36", PlatformDesktop},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectPlatform(tc.userAgent), tc.userAgent)
	}
}

package navigation

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

type Action int

const (
	ActionCancel Action = iota
	ActionAllow
)

func (a Action) String() string {
	if a == ActionAllow {
		return "allow"
	}
	return "cancel"
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Decision is what the embedding surface should do with one navigation
// request. LoadVideoID and ExternalURL are follow-ups for the host; the
// navigation itself only happens inside the page when Action is ActionAllow.
type Decision struct {
	Action      Action
	Category    string
	LoadVideoID mo.Option[string]
	ExternalURL mo.Option[string]
}

const categorySocial = "social"

var (
	socialHosts = []string{"facebook", "twitter"}

	// clicks inside the embed that should switch the active video
	internalCategories = []string{"emb_title", "emb_rel_pause", "emb_rel_end", "emb_info"}

	// links that leave the player for the host's site or a social network
	externalCategories = []string{categorySocial, "emb_logo", "wl_button"}
)

func cancel(category string) Decision {
	return Decision{Action: ActionCancel, Category: category}
}

// Decide classifies a navigation request coming from the player page. It is
// total: every input yields a decision.
func Decide(rawURL string, platform Platform) Decision {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return cancel("")
	}

	host := strings.ToLower(u.Hostname())
	query := u.Query()

	var category string
	switch {
	case lo.SomeBy(socialHosts, func(h string) bool { return strings.Contains(host, h) }):
		category = categorySocial
	case query.Has("feature"):
		category = query.Get("feature")
	case platform == PlatformIOS:
		// iOS routes the initial iframe document loads through here too.
		// TODO: this also lets social and embed-logo links escape the
		// hand-off on iOS; check whether the bypass is still needed.
		return Decision{Action: ActionAllow}
	default:
		return cancel("")
	}

	decision := cancel(category)
	switch {
	case lo.Contains(internalCategories, category):
		if videoID := query.Get("v"); videoID != "" {
			decision.LoadVideoID = mo.Some(videoID)
		}
	case lo.Contains(externalCategories, category):
		decision.ExternalURL = mo.Some(u.String())
	}

	return decision
}

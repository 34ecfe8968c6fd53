package playerpage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"
)

const (
	DefaultBaseURL         = "https://www.youtube.com"
	PrivacyEnhancedBaseURL = "https://www.youtube-nocookie.com"

	// ContainerID is the element the player replaces.
	ContainerID = "player"
	// TimeUpdateIntervalMs is how often the page reports progress while playing.
	TimeUpdateIntervalMs = 100
)

var ErrMissingVideoID = errors.New("video id is required")

func BaseURL(privacyEnhanced bool) string {
	if privacyEnhanced {
		return PrivacyEnhancedBaseURL
	}
	return DefaultBaseURL
}

type Options struct {
	VideoID         string
	BaseURL         string
	AutoPlay        bool
	Mute            bool
	Loop            bool
	ShowControls    bool
	EnableCaption   bool
	CaptionLanguage string
	StartAt         int
	EndAt           int
	// BridgeURL is the websocket endpoint the page reports to. Only used by
	// the full document.
	BridgeURL string
}

type scriptData struct {
	ContainerID     string
	Host            string
	VideoID         string
	PlaylistID      string
	Controls        int
	AutoPlay        int
	Mute            int
	Loop            int
	Caption         int
	CaptionLanguage string
	StartAt         int
	EndAt           int
	IntervalMs      int
}

var scriptTemplate = template.Must(template.New("script").Funcs(template.FuncMap{
	"js": jsLiteral,
}).Parse(`var player;
var timerId;

function onYouTubeIframeAPIReady() {
    player = new YT.Player({{js .ContainerID}}, {
        height: '100%',
        width: '100%',
        host: {{js .Host}},
        videoId: {{js .VideoID}},
        playerVars: {
            'controls': {{.Controls}},
            'playsinline': 1,
            'enablejsapi': 1,
            'fs': 0,
            'rel': 0,
            'iv_load_policy': 3,
            'modestbranding': 1,
            'autoplay': {{.AutoPlay}},
            'mute': {{.Mute}},
            'cc_load_policy': {{.Caption}},
            'cc_lang_pref': {{js .CaptionLanguage}},
{{- if .Loop}}
            'loop': 1,
            'playlist': {{js .PlaylistID}},
{{- end}}
{{- if .EndAt}}
            'end': {{.EndAt}},
{{- end}}
            'start': {{.StartAt}}
        },
        events: {
            onReady: function (event) { sendBridge('Ready'); },
            onStateChange: function (event) { sendPlayerStateChange(event.data); },
            onPlaybackQualityChange: function (event) { sendBridge('PlaybackQualityChange', event.data); },
            onPlaybackRateChange: function (event) { sendBridge('PlaybackRateChange', event.data); },
            onError: function (error) { sendBridge('Errors', error.data); }
        }
    });
}

function sendPlayerStateChange(playerState) {
    clearInterval(timerId);
    sendBridge('StateChange', playerState);
    if (playerState == 1) {
        startSendCurrentTimeInterval();
        sendVideoData(player);
    }
}

function sendVideoData(player) {
    var data = player.getVideoData();
    sendBridge('VideoData', {
        'duration': player.getDuration(),
        'title': data.title,
        'author': data.author,
        'videoId': data.video_id
    });
}

function startSendCurrentTimeInterval() {
    timerId = setInterval(function () {
        sendBridge('VideoTime', player.getCurrentTime(), player.getVideoLoadedFraction());
    }, {{.IntervalMs}});
}

function play() { player.playVideo(); return ''; }
function pause() { player.pauseVideo(); return ''; }
function stop() { player.stopVideo(); return ''; }
function loadById(loadSettings) { player.loadVideoById(loadSettings); return ''; }
function cueById(cueSettings) { player.cueVideoById(cueSettings); return ''; }
function loadPlaylist(playlist, index, startAt) { player.loadPlaylist(playlist, 'playlist', index, startAt); return ''; }
function cuePlaylist(playlist, index, startAt) { player.cuePlaylist(playlist, 'playlist', index, startAt); return ''; }
function mute() { player.mute(); return ''; }
function unMute() { player.unMute(); return ''; }
function setVolume(volume) { player.setVolume(volume); return ''; }
function seekTo(position, seekAhead) { player.seekTo(position, seekAhead); return ''; }
function setSize(width, height) { player.setSize(width, height); return ''; }
function setPlaybackRate(rate) { player.setPlaybackRate(rate); return ''; }
function setTopMargin(margin) { document.getElementById({{js .ContainerID}}).style.marginTop = margin; return ''; }
function setFullscreen(enabled) {
    var style = document.getElementById({{js .ContainerID}}).style;
    style.position = enabled ? 'fixed' : 'relative';
    style.top = '0';
    style.left = '0';
    style.zIndex = enabled ? '1000' : 'auto';
    return '';
}
`))

// Script returns the player wiring: it creates the IFrame player and forwards
// its events to sendBridge, which the embedding surface must define.
func Script(opts Options) (string, error) {
	if opts.VideoID == "" {
		return "", ErrMissingVideoID
	}

	host := opts.BaseURL
	if host == "" {
		host = DefaultBaseURL
	}

	data := scriptData{
		ContainerID:     ContainerID,
		Host:            host,
		VideoID:         opts.VideoID,
		PlaylistID:      opts.VideoID,
		Controls:        boolInt(opts.ShowControls),
		AutoPlay:        boolInt(opts.AutoPlay),
		Mute:            boolInt(opts.Mute),
		Loop:            boolInt(opts.Loop),
		Caption:         boolInt(opts.EnableCaption),
		CaptionLanguage: opts.CaptionLanguage,
		StartAt:         opts.StartAt,
		EndAt:           opts.EndAt,
		IntervalMs:      TimeUpdateIntervalMs,
	}

	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute script template: %w", err)
	}

	return buf.String(), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// jsLiteral encodes v as a JavaScript literal.
func jsLiteral(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

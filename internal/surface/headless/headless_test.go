package headless

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sharetube/embedplayer/internal/playerpage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) record(name string, args json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, name+string(args))
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

func startSurface(t *testing.T) (*Surface, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(playerpage.Options{VideoID: "abc123"}, rec.record)
	require.NoError(t, s.Start())
	return s, rec
}

func TestStartReportsLoadStopThenReady(t *testing.T) {
	s, rec := startSurface(t)
	assert.Equal(t, []string{"LoadStop[]"}, rec.take())

	require.NoError(t, s.Advance(0))
	assert.Equal(t, []string{"Ready[]"}, rec.take())
}

func TestPlayingStartsTimeUpdates(t *testing.T) {
	s, rec := startSurface(t)
	require.NoError(t, s.Advance(0))
	rec.take()

	require.NoError(t, s.SetVideoData("Song", "Band", 212.5))
	require.NoError(t, s.SetProgress(12.345, 0.5))
	require.NoError(t, s.SetState(1))
	assert.Equal(t, []string{
		"StateChange[1]",
		`VideoData[{"author":"Band","duration":212.5,"title":"Song","videoId":"abc123"}]`,
	}, rec.take())

	require.NoError(t, s.Advance(250*time.Millisecond))
	assert.Equal(t, []string{"VideoTime[12.345,0.5]", "VideoTime[12.345,0.5]"}, rec.take())
	assert.Equal(t, 1, s.ActiveTimers())

	// every state change cancels the timer; only playing restarts it
	require.NoError(t, s.SetState(2))
	assert.Equal(t, []string{"StateChange[2]"}, rec.take())
	assert.Equal(t, 0, s.ActiveTimers())

	require.NoError(t, s.Advance(time.Second))
	assert.Empty(t, rec.take())
}

func TestRepeatedPlayingKeepsSingleTimer(t *testing.T) {
	s, rec := startSurface(t)
	require.NoError(t, s.Advance(0))

	require.NoError(t, s.SetState(1))
	require.NoError(t, s.SetState(3))
	require.NoError(t, s.SetState(1))
	assert.Equal(t, 1, s.ActiveTimers())
	rec.take()

	require.NoError(t, s.Advance(100*time.Millisecond))
	assert.Len(t, rec.take(), 1)
}

func TestEvalCommands(t *testing.T) {
	s, rec := startSurface(t)
	require.NoError(t, s.Advance(0))
	rec.take()

	ctx := context.Background()
	seek, err := playerpage.SeekTo(10, true)
	require.NoError(t, err)
	rate, err := playerpage.SetPlaybackRate(1.5)
	require.NoError(t, err)

	require.NoError(t, s.Eval(ctx, seek))
	require.NoError(t, s.Eval(ctx, rate))
	require.NoError(t, s.Eval(ctx, playerpage.Pause()))
	require.NoError(t, s.Eval(ctx, playerpage.Fullscreen(true)))

	calls, err := s.Calls()
	require.NoError(t, err)
	assert.Equal(t, []string{"seekTo([10,true])", "setPlaybackRate([1.5])", "pauseVideo([])"}, calls)
	assert.Equal(t, []string{"PlaybackRateChange[1.5]", "StateChange[2]"}, rec.take())

	position, err := s.ContainerStyle("position")
	require.NoError(t, err)
	assert.Equal(t, "fixed", position)

	assert.Error(t, s.Eval(ctx, "undefinedFunction()"))
}

func TestReportErrorAndQuality(t *testing.T) {
	s, rec := startSurface(t)
	rec.take()

	require.NoError(t, s.ReportError(150))
	require.NoError(t, s.ReportQuality("hd720"))
	assert.Equal(t, []string{"Errors[150]", `PlaybackQualityChange["hd720"]`}, rec.take())
}

func TestNotStarted(t *testing.T) {
	s := New(playerpage.Options{VideoID: "abc123"}, nil)
	assert.ErrorIs(t, s.Eval(context.Background(), "play()"), ErrNotStarted)
	assert.ErrorIs(t, s.Advance(time.Second), ErrNotStarted)
}

func TestHandlerMayReenter(t *testing.T) {
	var s *Surface
	var once sync.Once
	s = New(playerpage.Options{VideoID: "abc123"}, func(name string, _ json.RawMessage) {
		if name == "Ready" {
			once.Do(func() {
				require.NoError(t, s.Eval(context.Background(), playerpage.Play()))
			})
		}
	})
	require.NoError(t, s.Start())
	require.NoError(t, s.Advance(0))

	calls, err := s.Calls()
	require.NoError(t, err)
	assert.Equal(t, []string{"playVideo([])"}, calls)
}

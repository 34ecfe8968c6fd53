package headless

import (
	"encoding/json"
	"fmt"
)

// The helpers below drive the stand-in player from the outside, the way a
// viewer interacting with the embedded iframe would.

// SetState makes the player report a state change.
func (s *Surface) SetState(code int) error {
	return s.exec(fmt.Sprintf("__player.__setState(%d);", code))
}

func (s *Surface) SetProgress(seconds, loadedFraction float64) error {
	return s.exec(fmt.Sprintf("__player.currentTime = %v; __player.loadedFraction = %v;", seconds, loadedFraction))
}

func (s *Surface) SetVideoData(title, author string, duration float64) error {
	t, _ := json.Marshal(title)
	a, _ := json.Marshal(author)
	return s.exec(fmt.Sprintf("__player.videoData.title = %s; __player.videoData.author = %s; __player.duration = %v;", t, a, duration))
}

func (s *Surface) ReportError(code int) error {
	return s.exec(fmt.Sprintf("__player.__emit('onError', %d);", code))
}

func (s *Surface) ReportQuality(quality string) error {
	q, _ := json.Marshal(quality)
	return s.exec(fmt.Sprintf("__player.__emit('onPlaybackQualityChange', %s);", q))
}

// Calls returns the IFrame API calls the page made, e.g. `seekTo([10,true])`.
func (s *Surface) Calls() ([]string, error) {
	var calls []string
	err := s.run(func() error {
		if !s.started {
			return ErrNotStarted
		}
		return s.vm.ExportTo(s.vm.Get("__player").ToObject(s.vm).Get("calls"), &calls)
	})

	return calls, err
}

// ContainerStyle returns the inline style of the player container.
func (s *Surface) ContainerStyle(property string) (string, error) {
	var value string
	err := s.run(func() error {
		if !s.started {
			return ErrNotStarted
		}
		v, err := s.vm.RunString(fmt.Sprintf("document.getElementById('player').style[%q] || ''", property))
		if err != nil {
			return err
		}
		value = v.String()
		return nil
	})

	return value, err
}

func (s *Surface) exec(script string) error {
	return s.run(func() error {
		if !s.started {
			return ErrNotStarted
		}
		_, err := s.vm.RunString(script)
		return err
	})
}

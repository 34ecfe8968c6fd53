package headless

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/sharetube/embedplayer/internal/playerpage"
)

// LoadStop is reported once the page script has been evaluated, the same
// surface event the browser page sends on window load.
const LoadStop = "LoadStop"

var ErrNotStarted = errors.New("headless surface not started")

// MessageFunc receives bridge messages as the page sends them: the handler
// name and the JSON array of its arguments.
type MessageFunc func(name string, args json.RawMessage)

type timer struct {
	id       int64
	due      time.Duration
	interval time.Duration
	repeat   bool
	fn       goja.Callable
}

// Surface runs the player page script in an embedded JavaScript runtime
// against a stand-in IFrame API. Time only moves through Advance.
type Surface struct {
	mu        sync.Mutex
	vm        *goja.Runtime
	opts      playerpage.Options
	onMessage MessageFunc
	started   bool

	now         time.Duration
	timers      map[int64]*timer
	nextTimerID int64

	// outbox holds messages sent while the runtime is busy; they are
	// delivered after the lock is released so handlers may call Eval.
	outbox []outgoing
}

type outgoing struct {
	name string
	args json.RawMessage
}

func New(opts playerpage.Options, onMessage MessageFunc) *Surface {
	return &Surface{
		opts:      opts,
		onMessage: onMessage,
		timers:    make(map[int64]*timer),
	}
}

// Start evaluates the page script, creates the player and reports LoadStop.
// The player's Ready event fires on the first Advance.
func (s *Surface) Start() error {
	script, err := playerpage.Script(s.opts)
	if err != nil {
		return err
	}

	err = s.run(func() error {
		vm := goja.New()
		s.vm = vm
		if err := s.installGlobals(vm); err != nil {
			return err
		}
		if _, err := vm.RunString(prelude); err != nil {
			return fmt.Errorf("failed to run prelude: %w", err)
		}
		if _, err := vm.RunString(script); err != nil {
			return fmt.Errorf("failed to run player script: %w", err)
		}
		if _, err := vm.RunString("onYouTubeIframeAPIReady(); __loadListeners.forEach(function (l) { l(); });"); err != nil {
			return fmt.Errorf("failed to create player: %w", err)
		}
		s.started = true
		s.outbox = append(s.outbox, outgoing{name: LoadStop, args: json.RawMessage("[]")})
		return nil
	})

	return err
}

func (s *Surface) installGlobals(vm *goja.Runtime) error {
	globals := map[string]func(goja.FunctionCall) goja.Value{
		"sendBridge": func(call goja.FunctionCall) goja.Value {
			name := call.Argument(0).String()
			args := make([]any, 0, len(call.Arguments))
			for i := 1; i < len(call.Arguments); i++ {
				args = append(args, call.Arguments[i].Export())
			}
			encoded, err := json.Marshal(args)
			if err != nil {
				panic(vm.NewGoError(err))
			}
			s.outbox = append(s.outbox, outgoing{name: name, args: encoded})
			return goja.Undefined()
		},
		"setInterval": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(s.addTimer(vm, call, true))
		},
		"setTimeout": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(s.addTimer(vm, call, false))
		},
		"clearInterval": s.clearTimer,
		"clearTimeout":  s.clearTimer,
	}

	for name, fn := range globals {
		if err := vm.Set(name, fn); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}

	return nil
}

func (s *Surface) addTimer(vm *goja.Runtime, call goja.FunctionCall, repeat bool) int64 {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		panic(vm.NewTypeError("timer callback is not a function"))
	}

	delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
	if repeat && delay < time.Millisecond {
		delay = time.Millisecond
	}

	s.nextTimerID++
	s.timers[s.nextTimerID] = &timer{
		id:       s.nextTimerID,
		due:      s.now + delay,
		interval: delay,
		repeat:   repeat,
		fn:       fn,
	}

	return s.nextTimerID
}

func (s *Surface) clearTimer(call goja.FunctionCall) goja.Value {
	arg := call.Argument(0)
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		return goja.Undefined()
	}

	delete(s.timers, arg.ToInteger())
	return goja.Undefined()
}

// run executes fn with the runtime locked and then delivers queued messages.
func (s *Surface) run(fn func() error) error {
	s.mu.Lock()
	err := fn()
	pending := s.outbox
	s.outbox = nil
	s.mu.Unlock()

	if s.onMessage != nil {
		for _, msg := range pending {
			s.onMessage(msg.name, msg.args)
		}
	}

	return err
}

// Eval runs a command script in the page.
func (s *Surface) Eval(_ context.Context, script string) error {
	return s.run(func() error {
		if !s.started {
			return ErrNotStarted
		}
		if _, err := s.vm.RunString(script); err != nil {
			return fmt.Errorf("failed to eval script: %w", err)
		}
		return nil
	})
}

// Advance moves the virtual clock forward by d and fires every timer that
// falls due, in due order.
func (s *Surface) Advance(d time.Duration) error {
	return s.run(func() error {
		if !s.started {
			return ErrNotStarted
		}

		target := s.now + d
		for {
			next := s.nextDue(target)
			if next == nil {
				break
			}

			s.now = next.due
			if next.repeat {
				next.due += next.interval
			} else {
				delete(s.timers, next.id)
			}

			if _, err := next.fn(goja.Undefined()); err != nil {
				return fmt.Errorf("timer %d failed: %w", next.id, err)
			}
		}
		s.now = target

		return nil
	})
}

func (s *Surface) nextDue(limit time.Duration) *timer {
	var next *timer
	for _, t := range s.timers {
		if t.due > limit {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.id < next.id) {
			next = t
		}
	}

	return next
}

// ActiveTimers reports how many timers are scheduled.
func (s *Surface) ActiveTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.timers)
}

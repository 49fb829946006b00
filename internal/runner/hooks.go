package runner

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wavesim/internal/core"
)

// Stage names where a hook runs relative to the physics step.
type Stage string

const (
	StagePreTick  Stage = "pre_tick"
	StagePostTick Stage = "post_tick"
)

// HookFunc observes one tick. A returned error or panic is reported and the
// tick carries on.
type HookFunc func(tick core.Tick) error

// HookError reports a failing tick observer.
type HookError struct {
	Hook  string
	Stage Stage
	Tick  int64
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook %q (%s) failed at tick %d: %v", e.Hook, e.Stage, e.Tick, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

type hook struct {
	name string
	fn   HookFunc
}

type hookList []hook

// fire runs every hook in registration order and returns how many failed.
func (l hookList) fire(stage Stage, tick core.Tick, logger *log.Logger) int {
	failed := 0
	for _, h := range l {
		if err := h.call(stage, tick); err != nil {
			failed++
			logger.Error("tick hook failed", "hook", h.name, "stage", stage, "tick", tick.Index, "error", err)
		}
	}
	return failed
}

func (h hook) call(stage Stage, tick core.Tick) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &HookError{Hook: h.name, Stage: stage, Tick: tick.Index, Err: fmt.Errorf("panic: %v", v)}
		}
	}()
	if err := h.fn(tick); err != nil {
		return &HookError{Hook: h.name, Stage: stage, Tick: tick.Index, Err: err}
	}
	return nil
}

func (l hookList) without(name string) hookList {
	return slices.DeleteFunc(l, func(h hook) bool { return h.name == name })
}

// OnPreTick registers fn to run before every physics step. Registering a
// name again replaces the earlier hook.
func (r *Runner) OnPreTick(name string, fn HookFunc) {
	r.pre = append(r.pre.without(name), hook{name: name, fn: fn})
}

// OnPostTick registers fn to run after every physics step. Registering a
// name again replaces the earlier hook.
func (r *Runner) OnPostTick(name string, fn HookFunc) {
	r.post = append(r.post.without(name), hook{name: name, fn: fn})
}

// removeHook unregisters every hook with the given name.
func (r *Runner) removeHook(name string) {
	r.pre = r.pre.without(name)
	r.post = r.post.without(name)
}

// Hooks returns the registered hook names for stage, in firing order.
func (r *Runner) Hooks(stage Stage) []string {
	l := r.pre
	if stage == StagePostTick {
		l = r.post
	}
	names := make([]string, len(l))
	for i, h := range l {
		names[i] = h.name
	}
	return names
}

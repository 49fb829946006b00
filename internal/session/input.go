package session

import (
	"strconv"
	"time"

	"github.com/vovakirdan/wavesim/internal/config"
	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/runner"
)

// Apply handles the actions collected during one frame, in action order.
// It reports whether a quit was requested.
func (s *Session) Apply(frame core.InputFrame) bool {
	quit := false
	for _, a := range frame.Sorted() {
		if s.apply(a) {
			quit = true
		}
	}
	return quit
}

func (s *Session) apply(a core.Action) bool {
	ctl := s.cfg.Controls
	var err error

	switch a {
	case core.ActionSpawn:
		_, err = s.Spawn()
	case core.ActionRemoveOldest:
		s.RemoveOldest()
	case core.ActionAirDragUp, core.ActionAirDragDown:
		v := nudge(s.sliders.AirDrag, ctl.Step, a == core.ActionAirDragUp)
		err = s.SetAirDrag(ctl.AirDrag(v))
	case core.ActionFrictionUp, core.ActionFrictionDown:
		v := nudge(s.sliders.FrictionDrag, ctl.Step, a == core.ActionFrictionUp)
		err = s.SetFrictionDrag(ctl.FrictionDrag(v))
	case core.ActionWaveSpeedUp, core.ActionWaveSpeedDown:
		v := nudge(s.sliders.WaveSpeed, ctl.Step, a == core.ActionWaveSpeedUp)
		err = s.SetWaveSpeed(ctl.WaveSpeed(v))
	case core.ActionTimeScaleUp, core.ActionTimeScaleDown:
		v := s.sliders.TimeScale - timeScaleStep
		if a == core.ActionTimeScaleUp {
			v = s.sliders.TimeScale + timeScaleStep
		}
		scale, slider := ctl.TimeScale(v)
		err = s.SetTimeScale(scale)
		s.sliders.TimeScale = slider
	case core.ActionPause:
		s.SetPaused(!s.paused)
	case core.ActionReset:
		err = s.Reset()
	case core.ActionQuit:
		return true
	}

	if err != nil {
		s.logger.Warn("action failed", "action", a, "err", err)
	}
	return false
}

func nudge(v, step float64, up bool) float64 {
	if up {
		return core.ClampF(v+step, 0, 1)
	}
	return core.ClampF(v-step, 0, 1)
}

// Status is a read-only view of the session for display.
type Status struct {
	Scenario string
	Seed     int64

	Balls    int
	Spawned  int
	Removed  int
	Contacts int64

	AirDrag      float64
	FrictionDrag float64
	WaveSpeed    float64
	TimeScale    float64
	Paused       bool
	Sliders      config.Sliders

	Phase    float64
	Equation string

	Runner runner.Stats
	Lag    time.Duration // Simulated time owed at the last frame
}

// Status captures the current state.
func (s *Session) Status() Status {
	st := Status{
		Scenario:     s.scenarioID,
		Seed:         s.seed,
		Balls:        len(s.balls),
		Spawned:      s.spawner.Spawned(),
		Removed:      s.sim.Removed(),
		Contacts:     s.contacts,
		AirDrag:      s.sim.AirDrag(),
		FrictionDrag: s.sim.FrictionDrag(),
		WaveSpeed:    s.waveSpeed,
		TimeScale:    s.run.TimeScale(),
		Paused:       s.paused,
		Sliders:      s.sliders,
		Runner:       s.run.Stats(),
		Lag:          s.run.Lag(s.lastFrame),
	}
	if s.wave != nil {
		st.Phase = s.wave.Phase()
		st.Equation = s.wave.Equation()
	} else {
		st.Equation = "Y = " + strconv.FormatFloat(s.cfg.Surface.Level, 'g', -1, 64)
	}
	return st
}

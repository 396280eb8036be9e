package audio

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
)

var _ engine.AudioService = (*Service)(nil)

// voice is one looping track routed through gain and pan into the mixer
type voice struct {
	track  string
	ctrl   *beep.Ctrl
	volume *effects.Volume
	pan    *effects.Pan
}

// Service plays looped tracks on a shared mixer
// Voices live in a fixed pool; their handles may be attached to entities
type Service struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	voices *engine.Pool[voice]
	tracks map[string]trackFactory
	log    *zap.Logger

	// Speaker is running; mixer mutations take the speaker lock
	output bool
}

// NewService creates a silent service with room for capacity voices
func NewService(capacity int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		mixer:  &beep.Mixer{},
		voices: engine.NewPool[voice](engine.PoolVoice, "voices", capacity),
		tracks: defaultTracks(),
		log:    log,
	}
}

// Start opens the speaker; a missing audio device leaves the service silent
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.output {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		s.log.Warn("audio unavailable, running silent", zap.Error(err))
		return nil
	}
	speaker.Play(s.mixer)
	s.output = true
	return nil
}

// Stop silences every voice and detaches the mixer
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked(func() { s.mixer.Clear() })
	if s.output {
		speaker.Clear()
		s.output = false
	}
	return nil
}

// Name implements core.Releaser
func (s *Service) Name() string { return s.voices.Name() }

// Tracks returns the playable track names
func (s *Service) Tracks() []string {
	out := make([]string, 0, len(s.tracks))
	for name := range s.tracks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Active returns the number of allocated voices
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voices.Count()
}

// PlayLoop starts a new voice looping track
func (s *Service) PlayLoop(track string) (core.Handle, error) {
	factory, ok := s.tracks[track]
	if !ok {
		return core.InvalidHandle, errors.Errorf("unknown track %q", track)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vol := &effects.Volume{Streamer: factory(sampleRate), Base: 2}
	pan := &effects.Pan{Streamer: vol}
	ctrl := &beep.Ctrl{Streamer: pan}
	h, err := s.voices.Create(voice{track: track, ctrl: ctrl, volume: vol, pan: pan})
	if err != nil {
		return core.InvalidHandle, err
	}
	s.locked(func() { s.mixer.Add(ctrl) })
	return h, nil
}

// Pause holds the voice in place
func (s *Service) Pause(h core.Handle) error {
	return s.withVoice(h, func(v *voice) error {
		v.ctrl.Paused = true
		return nil
	})
}

// Resume continues a paused voice
func (s *Service) Resume(h core.Handle) error {
	return s.withVoice(h, func(v *voice) error {
		v.ctrl.Paused = false
		return nil
	})
}

// SetParam adjusts a voice; volume is linear gain, pan is -1 (left) to 1 (right)
func (s *Service) SetParam(h core.Handle, name string, value float64) error {
	return s.withVoice(h, func(v *voice) error {
		switch name {
		case "volume":
			if value <= 0 {
				v.volume.Silent = true
				return nil
			}
			v.volume.Silent = false
			v.volume.Volume = math.Log2(value)
		case "pan":
			v.pan.Pan = math.Max(-1, math.Min(1, value))
		default:
			return errors.Errorf("unknown voice parameter %q", name)
		}
		return nil
	})
}

// Release stops the voice and frees its slot
// A playing mixer drops a control whose streamer is nil on its next pull;
// a silent one is never pulled, so it is rebuilt from the live voices
func (s *Service) Release(h core.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voices.Get(h)
	if !ok {
		return errors.Wrapf(core.ErrAlreadyRemoved, "voice %s", h)
	}
	ctrl := v.ctrl
	s.locked(func() { ctrl.Streamer = nil })
	if err := s.voices.Release(h); err != nil {
		return err
	}
	if !s.output {
		s.mixer.Clear()
		s.voices.ForEach(func(_ core.Handle, v *voice) { s.mixer.Add(v.ctrl) })
	}
	return nil
}

func (s *Service) withVoice(h core.Handle, fn func(v *voice) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voices.Get(h)
	if !ok {
		return errors.Wrapf(core.ErrAlreadyRemoved, "voice %s", h)
	}
	var err error
	s.locked(func() { err = fn(v) })
	return err
}

// locked runs fn under the speaker lock when the speaker callback may be pulling samples
func (s *Service) locked(fn func()) {
	if !s.output {
		fn()
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	fn()
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package capture

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relabs-tech/camera_motion/internal/orientation"
	"github.com/relabs-tech/camera_motion/internal/trajectory"
	"github.com/relabs-tech/camera_motion/internal/vmdcsv"
)

// DefaultRateHz is the recording rate: one snapshot per animation frame.
const DefaultRateHz = 31

var (
	ErrNotAuthorized    = errors.New("capture: motion sensor access not granted")
	ErrAlreadyRecording = errors.New("capture: already recording")
	ErrNotRecording     = errors.New("capture: not recording")
)

// State of a capture session.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a Session. Zero values select the defaults.
type Options struct {
	RateHz        int
	Window        int
	WrapThreshold int

	// ManualTick disables the internal timer; the caller drives Tick,
	// e.g. when replaying a stream that is already sampled per frame.
	ManualTick bool
}

// Result is the outcome of a finished recording.
type Result struct {
	SessionID string
	Samples   int    // snapshots taken by the timer
	Frames    int    // data rows in Data
	Data      []byte // complete CameraMotionData.csv contents
}

// Status is a point-in-time view of the session for UIs and status topics.
type Status struct {
	SessionID  string             `json:"session_id,omitempty"`
	State      string             `json:"state"`
	Authorized bool               `json:"authorized"`
	Samples    int                `json:"samples"`
	Offset     orientation.Angles `json:"offset"`
}

// Session owns everything a capture needs: the latest sensor reading, the
// reference point, and the recorded buffer. Sensor callbacks, the sampling
// timer and UI actions may run on different goroutines; mu serializes them.
type Session struct {
	mu sync.Mutex

	opts     Options
	interval time.Duration // 0 disables the internal timer

	state      State
	authorized bool
	haveFirst  bool
	current    orientation.Angles
	reference  orientation.Angles
	recorded   []orientation.Angles
	id         string

	stop chan struct{}
	done chan struct{}
}

// NewSession returns an idle session.
func NewSession(opts Options) *Session {
	if opts.RateHz <= 0 {
		opts.RateHz = DefaultRateHz
	}
	s := &Session{opts: opts}
	if !opts.ManualTick {
		s.interval = time.Second / time.Duration(opts.RateHz)
	}
	return s
}

// Authorize marks the sensor as usable and resets the reference to the
// current reading.
func (s *Session) Authorize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authorized = true
	s.reference = s.current
	log.Printf("capture: sensor authorized, reference %+v", s.reference)
}

// Observe stores the latest sensor event. The first event ever observed
// also becomes the reference.
func (s *Session) Observe(ev orientation.Event) {
	a := orientation.FromEvent(ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = a
	if !s.haveFirst {
		s.reference = a
		s.haveFirst = true
	}
}

// Offset returns the current reading relative to the reference.
func (s *Session) Offset() orientation.Angles {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Sub(s.reference)
}

// Reset makes the current reading the new zero point. Already recorded
// samples are kept as they are.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reference = s.current
}

// Start begins a new recording. The previous buffer is discarded.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized {
		return ErrNotAuthorized
	}
	if s.state == Recording {
		return ErrAlreadyRecording
	}

	s.state = Recording
	s.recorded = s.recorded[:0]
	s.id = uuid.NewString()

	if s.interval > 0 {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.run(s.stop, s.done)
	}

	log.Printf("capture: session %s started (%d Hz)", s.id, s.opts.RateHz)
	return nil
}

func (s *Session) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick appends one snapshot of the current offset while recording. It
// does not wait for fresh sensor data; a stale reading is recorded again.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Recording {
		return
	}
	s.recorded = append(s.recorded, s.current.Sub(s.reference))
}

// Stop ends the recording and runs the trajectory pipeline synchronously.
// It returns vmdcsv.ErrEmptyInput when the recording produced no frames.
func (s *Session) Stop() (Result, error) {
	s.mu.Lock()
	if s.state != Recording {
		s.mu.Unlock()
		return Result{}, ErrNotRecording
	}
	s.state = Idle
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	recorded := append([]orientation.Angles(nil), s.recorded...)
	id := s.id
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	res := Result{SessionID: id, Samples: len(recorded)}

	points := trajectory.Build(recorded, trajectory.Options{
		Window:        s.opts.Window,
		WrapThreshold: s.opts.WrapThreshold,
	})
	data, err := vmdcsv.Marshal(points)
	if err != nil {
		log.Printf("capture: session %s stopped with %d samples: %v", id, len(recorded), err)
		return res, err
	}

	res.Frames = len(points)
	res.Data = data
	log.Printf("capture: session %s stopped, %d samples -> %d frames", id, res.Samples, res.Frames)
	return res, nil
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the session status.
func (s *Session) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		SessionID:  s.id,
		State:      s.state.String(),
		Authorized: s.authorized,
		Samples:    len(s.recorded),
		Offset:     s.current.Sub(s.reference),
	}
}

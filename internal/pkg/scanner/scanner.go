// Package scanner runs a QR scan session: it samples camera frames on a fixed
// cadence, decodes credentials and hands accepted scans to a check-in handler.
package scanner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/paydesk/payroll-console/internal/pkg/qr"
	"golang.org/x/time/rate"
)

const (
	DefaultInterval = 500 * time.Millisecond
	DefaultThrottle = 2 * time.Second
)

var ErrAlreadyRunning = errors.New("scan session already running")

// Source yields camera frames. Close releases the camera.
type Source interface {
	Frame(ctx context.Context) ([]byte, error)
	Close() error
}

// Decoder extracts a QR payload from a frame.
type Decoder func(frame []byte) (string, error)

// Handler validates a payload and records the check-in.
type Handler func(ctx context.Context, payload string) (qrcode.CheckInResult, error)

// Outcome is reported for every accepted scan and for camera failures.
type Outcome struct {
	Payload string
	Result  qrcode.CheckInResult
	Err     error
	At      time.Time
}

type Options struct {
	Interval time.Duration
	Throttle time.Duration
	Decoder  Decoder
}

type Session struct {
	source    Source
	decode    Decoder
	handle    Handler
	onOutcome func(Outcome)
	interval  time.Duration
	limiter   *rate.Limiter

	mu         sync.Mutex
	cancel     context.CancelFunc
	done       chan struct{}
	inflight   sync.WaitGroup
	cameraDown bool
}

func New(source Source, handle Handler, onOutcome func(Outcome), opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Throttle <= 0 {
		opts.Throttle = DefaultThrottle
	}
	if opts.Decoder == nil {
		opts.Decoder = qr.DecodeBytes
	}
	if onOutcome == nil {
		onOutcome = func(Outcome) {}
	}

	return &Session{
		source:    source,
		decode:    opts.Decoder,
		handle:    handle,
		onOutcome: onOutcome,
		interval:  opts.Interval,
		limiter:   rate.NewLimiter(rate.Every(opts.Throttle), 1),
	}
}

// Start begins sampling in the background until Stop is called or ctx ends.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
	slog.Info("Scan session started", "interval", s.interval)
	return nil
}

// Stop cancels sampling and releases the camera. Validations already in flight
// are not cancelled; Stop returns once their outcomes have been delivered.
func (s *Session) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	err := s.source.Close()
	s.inflight.Wait()
	slog.Info("Scan session stopped")
	return err
}

// Running reports whether the session is sampling.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Session) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample(ctx)
		}
	}
}

func (s *Session) sample(ctx context.Context) {
	frame, err := s.source.Frame(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// Report the camera going away once, not on every tick.
		if !s.cameraDown {
			s.cameraDown = true
			s.onOutcome(Outcome{Err: cameraError(err), At: time.Now()})
		}
		return
	}
	s.cameraDown = false

	payload, err := s.decode(frame)
	if err != nil || payload == "" {
		return
	}
	if !s.limiter.Allow() {
		slog.Debug("Scan throttled")
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		result, err := s.handle(context.WithoutCancel(ctx), payload)
		s.onOutcome(Outcome{Payload: payload, Result: result, Err: err, At: time.Now()})
	}()
}

func cameraError(err error) error {
	if errors.Is(err, qrcode.ErrCameraUnavailable) {
		return err
	}
	return errors.Join(qrcode.ErrCameraUnavailable, err)
}

package scanner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	frames int
	err    error
	closed atomic.Bool
}

func (f *fakeSource) Frame(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("frame"), nil
}

func (f *fakeSource) Close() error {
	f.closed.Store(true)
	return nil
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func staticDecoder(payload string) Decoder {
	return func([]byte) (string, error) { return payload, nil }
}

type outcomes struct {
	mu   sync.Mutex
	list []Outcome
}

func (o *outcomes) add(out Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.list = append(o.list, out)
}

func (o *outcomes) snapshot() []Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Outcome(nil), o.list...)
}

func TestSession_ThrottlesAcceptedScans(t *testing.T) {
	// Arrange
	src := &fakeSource{}
	var handled atomic.Int32
	handler := func(ctx context.Context, payload string) (qrcode.CheckInResult, error) {
		handled.Add(1)
		return qrcode.CheckInResult{Success: true, Message: "ok"}, nil
	}
	got := &outcomes{}
	s := New(src, handler, got.add, Options{
		Interval: 5 * time.Millisecond,
		Throttle: time.Hour,
		Decoder:  staticDecoder("EMP:1"),
	})

	// Act
	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.frames >= 5
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())

	// Assert
	assert.Equal(t, int32(1), handled.Load())
	require.Len(t, got.snapshot(), 1)
	assert.Equal(t, "EMP:1", got.snapshot()[0].Payload)
	assert.True(t, src.closed.Load())
	assert.False(t, s.Running())
}

func TestSession_StopLetsInFlightValidationFinish(t *testing.T) {
	// Arrange
	src := &fakeSource{}
	started := make(chan struct{})
	release := make(chan struct{})
	var handlerCtxErr atomic.Value
	handler := func(ctx context.Context, payload string) (qrcode.CheckInResult, error) {
		close(started)
		<-release
		handlerCtxErr.Store(ctx.Err() == nil)
		return qrcode.CheckInResult{Success: true, Message: "Présence enregistrée"}, nil
	}
	got := &outcomes{}
	s := New(src, handler, got.add, Options{
		Interval: 5 * time.Millisecond,
		Throttle: time.Hour,
		Decoder:  staticDecoder("EMP:2"),
	})
	require.NoError(t, s.Start(context.Background()))
	<-started

	// Act
	stopped := make(chan error, 1)
	go func() { stopped <- s.Stop() }()

	// Assert: sampling stops and the camera is released before the validation ends.
	assert.Eventually(t, src.closed.Load, time.Second, 5*time.Millisecond)
	select {
	case <-stopped:
		t.Fatal("Stop returned before the in-flight validation finished")
	default:
	}

	close(release)
	require.NoError(t, <-stopped)
	require.Len(t, got.snapshot(), 1)
	assert.True(t, got.snapshot()[0].Result.Success)
	assert.Equal(t, true, handlerCtxErr.Load())
}

func TestSession_ReportsCameraFailureOnce(t *testing.T) {
	src := &fakeSource{err: errors.New("permission denied")}
	got := &outcomes{}
	s := New(src, func(context.Context, string) (qrcode.CheckInResult, error) {
		t.Fatal("handler must not run without a frame")
		return qrcode.CheckInResult{}, nil
	}, got.add, Options{Interval: 5 * time.Millisecond, Decoder: staticDecoder("x")})

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.frames >= 4
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())

	list := got.snapshot()
	require.Len(t, list, 1)
	assert.ErrorIs(t, list[0].Err, qrcode.ErrCameraUnavailable)
}

func TestSession_StartTwice(t *testing.T) {
	s := New(&fakeSource{}, nil, nil, Options{Decoder: func([]byte) (string, error) { return "", errors.New("none") }})
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)
}

func TestSnapshotSource(t *testing.T) {
	var denied atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if denied.Load() {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	src := NewSnapshotSource(srv.URL, time.Second)

	frame, err := src.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), frame)

	denied.Store(true)
	_, err = src.Frame(context.Background())
	assert.ErrorIs(t, err, qrcode.ErrCameraUnavailable)

	require.NoError(t, src.Close())
	_, err = src.Frame(context.Background())
	assert.ErrorIs(t, err, ErrSourceClosed)
}

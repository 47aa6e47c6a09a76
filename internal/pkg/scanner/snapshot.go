package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/qrcode"
)

// maxFrameSize bounds a single snapshot.
const maxFrameSize = 8 << 20

var ErrSourceClosed = errors.New("camera source is closed")

// SnapshotSource polls a camera that serves still frames over HTTP, as IP
// cameras and webcam bridges commonly do.
type SnapshotSource struct {
	url    string
	client *http.Client

	mu     sync.Mutex
	closed bool
}

func NewSnapshotSource(url string, timeout time.Duration) *SnapshotSource {
	return &SnapshotSource{url: url, client: &http.Client{Timeout: timeout}}
}

func (s *SnapshotSource) Frame(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrSourceClosed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qrcode.ErrCameraUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: permission denied (%d)", qrcode.ErrCameraUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: snapshot status %d", qrcode.ErrCameraUnavailable, resp.StatusCode)
	}

	frame, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameSize))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return frame, nil
}

// Close releases the source; later Frame calls fail with ErrSourceClosed.
func (s *SnapshotSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.client.CloseIdleConnections()
	return nil
}

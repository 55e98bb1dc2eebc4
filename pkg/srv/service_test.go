package srv

import (
	"context"
	"errors"
	"testing"
)

type recordingService struct {
	shutdownErr error
	seenCtxErr  error
	called      bool
}

func (s *recordingService) Start(ctx context.Context) error { return nil }

func (s *recordingService) Shutdown(ctx context.Context) error {
	s.called = true
	s.seenCtxErr = ctx.Err()
	return s.shutdownErr
}

func TestShutdownServicesUsesGraceContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := &recordingService{}
	ShutdownServices(ctx, []Service{svc})

	if !svc.called {
		t.Fatal("expected Shutdown to be called")
	}
	// the grace context must be live even though the run context is cancelled
	if svc.seenCtxErr != nil {
		t.Errorf("expected live shutdown context, got %v", svc.seenCtxErr)
	}
}

func TestShutdownServicesContinuesPastErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := &recordingService{shutdownErr: errors.New("close failed")}
	second := &recordingService{}
	ShutdownServices(ctx, []Service{first, second})

	if !second.called {
		t.Error("expected shutdown to continue after an error")
	}
}

func TestCleanupShutdownWrapsName(t *testing.T) {
	boom := errors.New("boom")
	svc := NewCleanup("database", func() error { return boom })

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	err := svc.Shutdown(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if want := "close database: boom"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestCleanupNilFunc(t *testing.T) {
	svc := NewCleanup("noop", nil)
	if err := svc.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/wayfound/atlas/pkg/lifecycle"
)

func TestStartupReadiness(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Bool
	lc.OnStartup(func() { ran.Store(true) })

	if lc.Ready() {
		t.Error("coordinator ready before startup completed")
	}

	lc.WaitForStartup()

	if !ran.Load() {
		t.Error("startup hook never ran")
	}

	if !lc.Ready() {
		t.Error("coordinator not ready after startup")
	}
}

func TestShutdownCancelsContext(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if !cleaned.Load() {
		t.Error("shutdown hook never cleaned up")
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-release
	})

	err := lc.Shutdown(10 * time.Millisecond)
	close(release)

	if err == nil {
		t.Error("expected timeout error from stuck shutdown hook")
	}
}

package player

import (
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/therebelrobot/open-strudel-samples/internal/log"
)

func requireSleep(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
}

// waitForExit polls until the process is gone or the deadline passes.
func waitForExit(t *testing.T, cmd *exec.Cmd) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := cmd.Process.Signal(syscall.Signal(0)); err != nil {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestPlayReleasesPreviousProcess(t *testing.T) {
	requireSleep(t)

	l := NewLauncher("sleep", nil, "", 0, log.NullLogger())
	t.Cleanup(func() { l.Stop() })

	if err := l.Play("30"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	l.mu.Lock()
	first := l.current
	l.mu.Unlock()

	if err := l.Play("30"); err != nil {
		t.Fatalf("second Play failed: %v", err)
	}
	l.mu.Lock()
	second := l.current
	l.mu.Unlock()

	if second == first {
		t.Fatal("expected a new player process")
	}
	if !waitForExit(t, first) {
		t.Error("previous player process still alive after new playback started")
	}
}

func TestStopReleasesProcess(t *testing.T) {
	requireSleep(t)

	l := NewLauncher("sleep", nil, "", 0, log.NullLogger())
	if err := l.Play("30"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	l.mu.Lock()
	cmd := l.current
	l.mu.Unlock()

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if !waitForExit(t, cmd) {
		t.Error("player process still alive after Stop")
	}

	l.mu.Lock()
	current := l.current
	l.mu.Unlock()
	if current != nil {
		t.Error("Stop should clear the active process")
	}
}

func TestResolvePlayerPrefersConfiguredCommand(t *testing.T) {
	l := NewLauncher("myplayer", []string{"-a"}, "", 0, log.NullLogger())
	command, args, err := l.resolvePlayer()
	if err != nil {
		t.Fatalf("resolvePlayer failed: %v", err)
	}
	if command != "myplayer" || len(args) != 1 || args[0] != "-a" {
		t.Errorf("unexpected resolution: %q %v", command, args)
	}
}

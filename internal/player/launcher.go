// Package player drives audio preview through an external player process.
// At most one process is alive at a time: starting a new sound releases the
// previous one first, and the process is reaped on stop, completion, error,
// and teardown.
package player

import (
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
)

// candidate defines one auto-detected player and the flags that make it act
// as a headless audio previewer.
type candidate struct {
	command string
	args    []string
}

// candidates are tried in order when no player is configured.
var candidates = []candidate{
	{command: "mpv", args: []string{"--no-video"}},
	{command: "ffplay", args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{command: "vlc", args: []string{"--intf", "dummy", "--play-and-exit"}},
}

// Launcher plays sound URLs in an external player.
type Launcher struct {
	command    string   // configured player command, empty for auto-detection
	args       []string // additional player arguments
	volumeFlag string   // e.g. "--volume="
	volume     int      // 0 leaves the player default

	logger *slog.Logger

	mu         sync.Mutex
	current    *exec.Cmd
	generation int    // guards stale completion callbacks
	onDone     func() // invoked when playback finishes on its own
}

// NewLauncher creates a launcher around the configured player command.
func NewLauncher(command string, args []string, volumeFlag string, volume int, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:    command,
		args:       args,
		volumeFlag: volumeFlag,
		volume:     volume,
		logger:     logger,
	}
}

// OnDone registers a callback fired when a playback process exits without
// being replaced or stopped.
func (l *Launcher) OnDone(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onDone = fn
}

// Play starts playback of url, releasing any previous playback first.
func (l *Launcher) Play(url string) error {
	command, args, err := l.resolvePlayer()
	if err != nil {
		return err
	}

	if l.volume > 0 && l.volumeFlag != "" {
		args = append(args, fmt.Sprintf("%s%d", l.volumeFlag, l.volume))
	}
	args = append(args, url)

	cmd := exec.Command(command, args...)

	// Release the previous playback before starting the next so two audio
	// processes never overlap.
	l.mu.Lock()
	l.killLocked()
	if err := cmd.Start(); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to start player %q: %w", command, err)
	}
	l.current = cmd
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	l.logger.Info("playback started", "command", command, "url", url)

	// Reap the process; only the active generation reports completion.
	go func() {
		err := cmd.Wait()

		l.mu.Lock()
		stale := gen != l.generation
		if !stale {
			l.current = nil
		}
		done := l.onDone
		l.mu.Unlock()

		if stale {
			return
		}
		if err != nil {
			l.logger.Debug("player exited", "error", err)
		}
		if done != nil {
			done()
		}
	}()

	return nil
}

// Stop releases the active playback, if any.
func (l *Launcher) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.killLocked()
	l.generation++
	return nil
}

// killLocked terminates the current process. Caller holds l.mu.
func (l *Launcher) killLocked() {
	if l.current == nil {
		return
	}
	if l.current.Process != nil {
		_ = l.current.Process.Kill()
	}
	l.current = nil
}

// resolvePlayer picks the configured command or the first detected candidate.
func (l *Launcher) resolvePlayer() (string, []string, error) {
	if l.command != "" {
		args := make([]string, len(l.args))
		copy(args, l.args)
		return l.command, args, nil
	}

	for _, c := range candidates {
		if _, err := exec.LookPath(c.command); err == nil {
			l.logger.Debug("auto-detected audio player", "command", c.command)
			args := make([]string, len(c.args))
			copy(args, c.args)
			return c.command, args, nil
		}
	}
	return "", nil, fmt.Errorf("no audio player found, configure player.command")
}

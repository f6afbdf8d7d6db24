// Package playlist adds sequential multi-file playback on top of
// pkg/engine: play a file to completion, then move to the next. This is
// explicitly not gapless playback (no precise A/V sync is attempted
// either) — there is a load()/Play() boundary between tracks.
package playlist

import (
	"log/slog"
	"time"

	"github.com/drgolem/audioengine/pkg/engine"
)

// Playlist sequences a list of files through a single Engine.
type Playlist struct {
	eng    *engine.Engine
	files  []string
	logger *slog.Logger

	pollInterval time.Duration
	stopChan     chan struct{}
}

// New builds a Playlist over files using eng for playback.
func New(eng *engine.Engine, files []string) *Playlist {
	return &Playlist{
		eng:          eng,
		files:        files,
		logger:       slog.Default(),
		pollInterval: 100 * time.Millisecond,
		stopChan:     make(chan struct{}),
	}
}

// Run plays each file to completion in order, calling the engine's Tick
// on pollInterval exactly as §6 requires the host loop to. Returns when
// every file has finished or Stop is called.
func (pl *Playlist) Run() {
	ticker := time.NewTicker(pl.pollInterval)
	defer ticker.Stop()

	for i, file := range pl.files {
		select {
		case <-pl.stopChan:
			pl.logger.Info("playlist stopped before finishing", "completed", i, "total", len(pl.files))
			return
		default:
		}

		pl.logger.Info("playing file", "index", i+1, "total", len(pl.files), "file", file)

		if err := pl.eng.Load(file); err != nil {
			pl.logger.Error("failed to load file, skipping", "file", file, "error", err)
			continue
		}
		pl.eng.Play()

		for !pl.eng.IsEOS() {
			select {
			case <-pl.stopChan:
				pl.eng.Stop()
				return
			case <-ticker.C:
				pl.eng.Tick()
			}
		}
	}

	pl.eng.Stop()
	pl.logger.Info("playlist completed", "total", len(pl.files))
}

// Stop interrupts Run at the next opportunity, stopping the engine.
func (pl *Playlist) Stop() {
	select {
	case <-pl.stopChan:
	default:
		close(pl.stopChan)
	}
}

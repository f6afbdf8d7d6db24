// Package outputmanager implements the Disconnected<->Connected hot-swap
// supervisor as an explicit state machine that owns the ring's consumer
// endpoint whenever no backend is connected.
package outputmanager

import (
	"log/slog"

	"github.com/drgolem/audioengine/pkg/clock"
	"github.com/drgolem/audioengine/pkg/outputdevice"
	"github.com/drgolem/audioengine/pkg/ringbuffer"
)

// State mirrors §4.1's OutputManager state machine.
type State int

const (
	Disconnected State = iota
	Connected
)

// Manager holds the ring's consumer endpoint in exactly one of two
// mutually-exclusive slots at any instant: consumer (Disconnected) or
// backend (Connected, which itself borrows the consumer for the stream's
// lifetime). Per §9's "two optional slots" guidance, only the Manager's
// own methods ever transition which slot is occupied.
type Manager struct {
	clock  *clock.Clock
	logger *slog.Logger

	state    State
	consumer *ringbuffer.Consumer // held while Disconnected
	backend  *outputdevice.Backend // held while Connected

	deviceConfig outputdevice.Config
}

// New constructs a Manager in the Disconnected state, holding consumer.
func New(consumer *ringbuffer.Consumer, c *clock.Clock, deviceConfig outputdevice.Config) *Manager {
	return &Manager{
		clock:        c,
		logger:       slog.Default(),
		state:        Disconnected,
		consumer:     consumer,
		deviceConfig: deviceConfig,
	}
}

// IsHealthy reports whether the manager currently holds a live backend.
func (m *Manager) IsHealthy() bool {
	return m.state == Connected && m.backend != nil
}

// CheckConnection probes the configured device without disturbing a
// currently-connected backend; used by Tick to decide whether a
// reconnect attempt is warranted. A cheap probe, not the live stream.
func (m *Manager) CheckConnection() error {
	return outputdevice.Probe(m.deviceConfig)
}

// TryReconnect attempts to move from Disconnected to Connected by opening
// a backend on the configured device, handing it the consumer endpoint
// for the stream's lifetime. On success the Clock's sample_rate/channels
// are updated to the device's actual configuration (per invariant 5:
// "written only by the backend at stream creation"). On failure the
// manager remains Disconnected and retains the consumer.
func (m *Manager) TryReconnect() error {
	if m.state == Connected {
		return nil
	}

	backend, err := outputdevice.Open(m.deviceConfig, m.consumer, m.clock)
	if err != nil {
		m.logger.Warn("output device reconnect failed; retaining disconnected state", "error", err)
		return err
	}

	m.clock.SetSampleRate(m.deviceConfig.SampleRate)
	m.clock.SetChannels(m.deviceConfig.Channels)

	m.backend = backend
	m.consumer = nil
	m.state = Connected
	m.logger.Info("output device connected", "device_index", m.deviceConfig.DeviceIndex,
		"sample_rate", m.deviceConfig.SampleRate, "channels", m.deviceConfig.Channels)
	return nil
}

// disconnect tears down the current backend, reclaiming the consumer
// endpoint back into the manager's own slot before the backend is closed.
func (m *Manager) disconnect() {
	if m.backend == nil {
		return
	}
	m.consumer = m.backend.Consumer()
	if err := m.backend.Close(); err != nil {
		m.logger.Warn("closing output backend", "error", err)
	}
	m.backend = nil
	m.state = Disconnected
}

// Reconfigure changes the target device/format (e.g. responding to a
// host-initiated device switch) and forces a reconnect on the next Tick.
func (m *Manager) Reconfigure(deviceConfig outputdevice.Config) {
	m.disconnect()
	m.deviceConfig = deviceConfig
}

// Start transitions playback to Playing; defined only when Connected,
// per §4.1.
func (m *Manager) Start() {
	if m.state != Connected {
		return
	}
	m.clock.SetState(clock.Playing)
}

// Pause transitions playback to Paused; defined only when Connected.
func (m *Manager) Pause() {
	if m.state != Connected {
		return
	}
	m.clock.SetState(clock.Paused)
}

// Stop transitions playback to Stopped and tears down the backend,
// reclaiming the consumer endpoint.
func (m *Manager) Stop() {
	m.clock.SetState(clock.Stopped)
	m.disconnect()
}

// Tick is the host-driven health check and reconnect loop of §4.8,
// defined in both Disconnected and Connected states: when disconnected it
// attempts TryReconnect; when connected it probes for device health and
// transitions to Disconnected on failure so the next Tick can rebuild.
func (m *Manager) Tick() {
	switch m.state {
	case Disconnected:
		_ = m.TryReconnect()
	case Connected:
		if err := m.CheckConnection(); err != nil {
			m.logger.Warn("output device became unhealthy; disconnecting for rebuild", "error", err)
			m.disconnect()
		}
	}
}

// Shutdown tears down any live backend and leaves the manager
// Disconnected, holding the consumer endpoint again.
func (m *Manager) Shutdown() {
	m.disconnect()
}

// Consumer returns the ring's consumer endpoint if the manager currently
// holds it (Disconnected), or nil if it is on loan to a connected
// backend. Exposed mainly for tests and diagnostics.
func (m *Manager) Consumer() *ringbuffer.Consumer {
	return m.consumer
}

// State reports the manager's current connection state.
func (m *Manager) State() State {
	return m.state
}

// Package audio plays short sound cues when action ranges start.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/animseq/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Cue errors.
var (
	ErrNotInitialized = errors.New("audio not initialized")
	ErrUnknownCue     = errors.New("unknown cue")
)

// Manager owns the speaker and a set of decoded cues keyed by range name.
type Manager struct {
	mu sync.RWMutex

	// State
	initialized bool
	muted       bool
	sampleRate  beep.SampleRate

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	sfxVolLevel  float64

	// Mixer for concurrent cues
	mixer *beep.Mixer
	cues  map[string]*beep.Buffer
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		masterVolume: 1.0,
		sfxVolLevel:  1.0,
		mixer:        &beep.Mixer{},
		cues:         make(map[string]*beep.Buffer),
	}
}

// Init initializes the audio system.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	// Start cue mixer
	speaker.Play(m.mixer)

	m.initialized = true
	logger.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)))
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMuted silences cues without tearing down the speaker.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// Muted reports whether cues are silenced.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the cue volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetSFXVolume returns the cue volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

// volumeToDb converts a 0-1 volume to decibel scale.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	// vol=1 -> 0dB, vol=0.5 -> -6dB, vol=0.25 -> -12dB
	return 20 * math.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// LoadCue decodes WAV data and registers it under name.
func (m *Manager) LoadCue(name string, data []byte) error {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	// Resample if needed
	var resampled beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}

	m.store(name, resampled)
	return nil
}

// ToneCue registers a generated sine tone under name.
func (m *Manager) ToneCue(name string, freq float64, d time.Duration) error {
	tone, err := generators.SineTone(m.sampleRate, freq)
	if err != nil {
		return fmt.Errorf("tone %q: %w", name, err)
	}
	m.store(name, beep.Take(m.sampleRate.N(d), tone))
	return nil
}

func (m *Manager) store(name string, s beep.Streamer) {
	buf := beep.NewBuffer(beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(s)

	m.mu.Lock()
	m.cues[name] = buf
	m.mu.Unlock()

	logger.Debug("cue registered", zap.String("cue", name), zap.Int("samples", buf.Len()))
}

// HasCue reports whether a cue is registered.
func (m *Manager) HasCue(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cues[name]
	return ok
}

// CueLen returns the cue length in samples.
func (m *Manager) CueLen(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if buf, ok := m.cues[name]; ok {
		return buf.Len()
	}
	return 0
}

// Cue plays a registered cue on the mixer. Muted managers drop the request.
func (m *Manager) Cue(name string) error {
	m.mu.RLock()
	initialized := m.initialized
	muted := m.muted
	vol := m.masterVolume * m.sfxVolLevel
	buf, ok := m.cues[name]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCue, name)
	}
	if muted {
		return nil
	}
	if !initialized {
		return ErrNotInitialized
	}

	// Apply volume
	volStreamer := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeToDb(vol),
		Silent:   vol <= 0,
	}

	// Add to mixer (concurrent playback)
	speaker.Lock()
	m.mixer.Add(volStreamer)
	speaker.Unlock()
	return nil
}

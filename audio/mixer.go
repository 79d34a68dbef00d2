// Package audio groups playing sounds into named channels with shared
// volume control, stop-all and timed fades.
package audio

import (
	"slices"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// DefaultChannel is the channel a sound joins when none is named.
const DefaultChannel = "default"

// Track is a playable sound. *audio.Player from Ebitengine satisfies it.
type Track interface {
	Play()
	Pause()
	Rewind() error
	IsPlaying() bool
	Volume() float64
	SetVolume(volume float64)
	Close() error
}

// SoundOptions configures a sound added to a Mixer. Loop is applied by the
// loader that builds the Track; the mixer only records it.
type SoundOptions struct {
	Loop    bool
	Volume  float64
	Channel string
}

// DefaultSoundOptions returns full volume on the default channel.
func DefaultSoundOptions() SoundOptions {
	return SoundOptions{Volume: 1, Channel: DefaultChannel}
}

// Sound is a Track registered with a Mixer.
type Sound struct {
	name    string
	channel string
	loop    bool
	track   Track
	log     *zap.Logger
}

// Name returns the name the sound was added under.
func (s *Sound) Name() string { return s.name }

// Channel returns the channel the sound belongs to.
func (s *Sound) Channel() string { return s.channel }

// Loop reports whether the sound was created looping.
func (s *Sound) Loop() bool { return s.loop }

// Play starts or resumes playback.
func (s *Sound) Play() {
	s.track.Play()
	s.log.Debug("audio play", zap.String("sound", s.name))
}

// Pause pauses playback, keeping the position.
func (s *Sound) Pause() {
	s.track.Pause()
}

// Stop pauses playback and rewinds to the start.
func (s *Sound) Stop() {
	s.track.Pause()
	if err := s.track.Rewind(); err != nil {
		s.log.Warn("audio rewind failed", zap.String("sound", s.name), zap.Error(err))
	}
}

// SetVolume sets the volume, clamped to [0, 1].
func (s *Sound) SetVolume(v float64) {
	s.track.SetVolume(clampVolume(v))
}

// Volume returns the current volume.
func (s *Sound) Volume() float64 { return s.track.Volume() }

// IsPlaying reports whether the sound is playing.
func (s *Sound) IsPlaying() bool { return s.track.IsPlaying() }

type fade struct {
	tween *gween.Tween
}

// Mixer owns sounds grouped by channel. Fades advance in Update, which the
// runtime calls once per frame. Mixer is not safe for concurrent use.
type Mixer struct {
	channels map[string][]*Sound
	fades    map[string]*fade
	log      *zap.Logger
}

// NewMixer returns an empty mixer. A nil logger is replaced by a no-op one.
func NewMixer(log *zap.Logger) *Mixer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mixer{
		channels: make(map[string][]*Sound),
		fades:    make(map[string]*fade),
		log:      log,
	}
}

// Add registers t under name and returns its Sound. The initial volume is
// clamped; an empty channel selects DefaultChannel.
func (m *Mixer) Add(name string, t Track, opts SoundOptions) *Sound {
	if opts.Channel == "" {
		opts.Channel = DefaultChannel
	}
	t.SetVolume(clampVolume(opts.Volume))
	s := &Sound{name: name, channel: opts.Channel, loop: opts.Loop, track: t, log: m.log}
	m.channels[opts.Channel] = append(m.channels[opts.Channel], s)
	m.log.Debug("audio added", zap.String("sound", name), zap.String("channel", opts.Channel))
	return s
}

// Remove closes s and drops it from its channel.
func (m *Mixer) Remove(s *Sound) {
	list := m.channels[s.channel]
	if i := slices.Index(list, s); i >= 0 {
		m.channels[s.channel] = slices.Delete(list, i, i+1)
	}
	if err := s.track.Close(); err != nil {
		m.log.Warn("audio close failed", zap.String("sound", s.name), zap.Error(err))
	}
}

// Channels returns the channel names in sorted order.
func (m *Mixer) Channels() []string {
	names := make([]string, 0, len(m.channels))
	for n := range m.channels {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Sounds returns the sounds on a channel.
func (m *Mixer) Sounds(channel string) []*Sound {
	return slices.Clone(m.channels[channel])
}

// Sound returns the first sound added under name, searching channels in
// sorted order.
func (m *Mixer) Sound(name string) (*Sound, bool) {
	for _, ch := range m.Channels() {
		for _, s := range m.channels[ch] {
			if s.name == name {
				return s, true
			}
		}
	}
	return nil, false
}

// StopAll stops and rewinds every sound on every channel.
func (m *Mixer) StopAll() {
	for _, list := range m.channels {
		for _, s := range list {
			s.Stop()
		}
	}
	clear(m.fades)
	m.log.Info("audio stopped")
}

// SetChannelVolume sets every sound on channel to v, clamped to [0, 1].
// It cancels a running fade on that channel and reports false for an
// unknown channel.
func (m *Mixer) SetChannelVolume(channel string, v float64) bool {
	list, ok := m.channels[channel]
	if !ok {
		m.log.Warn("audio channel not found", zap.String("channel", channel))
		return false
	}
	delete(m.fades, channel)
	v = clampVolume(v)
	for _, s := range list {
		s.track.SetVolume(v)
	}
	return true
}

// FadeChannel moves the channel volume linearly from the volume of its
// first sound to target over d. A non-positive d applies target at once.
func (m *Mixer) FadeChannel(channel string, target float64, d time.Duration) bool {
	list, ok := m.channels[channel]
	if !ok {
		m.log.Warn("audio channel not found for fade", zap.String("channel", channel))
		return false
	}
	if len(list) == 0 {
		return true
	}
	target = clampVolume(target)
	if d <= 0 {
		return m.SetChannelVolume(channel, target)
	}
	start := list[0].track.Volume()
	m.fades[channel] = &fade{
		tween: gween.New(float32(start), float32(target), float32(d.Seconds()), ease.Linear),
	}
	return true
}

// Fading reports whether channel has a fade in progress.
func (m *Mixer) Fading(channel string) bool {
	_, ok := m.fades[channel]
	return ok
}

// Update advances running fades by dt seconds.
func (m *Mixer) Update(dt float64) {
	for channel, f := range m.fades {
		v, done := f.tween.Update(float32(dt))
		vol := clampVolume(float64(v))
		for _, s := range m.channels[channel] {
			s.track.SetVolume(vol)
		}
		if done {
			delete(m.fades, channel)
			m.log.Debug("audio fade complete", zap.String("channel", channel), zap.Float64("volume", vol))
		}
	}
}

// Close stops and closes every sound and empties the mixer.
func (m *Mixer) Close() {
	for _, list := range m.channels {
		for _, s := range list {
			s.track.Pause()
			if err := s.track.Close(); err != nil {
				m.log.Warn("audio close failed", zap.String("sound", s.name), zap.Error(err))
			}
		}
	}
	clear(m.channels)
	clear(m.fades)
}

func clampVolume(v float64) float64 {
	return max(0, min(1, v))
}

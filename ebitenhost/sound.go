package ebitenhost

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/phanxgames/electric/audio"
)

// codec names a supported sound encoding.
type codec int

const (
	codecNone codec = iota
	codecWAV
	codecVorbis
	codecMP3
)

// codecFor picks a codec from the extension of name.
func codecFor(name string) codec {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return codecWAV
	case ".ogg", ".oga":
		return codecVorbis
	case ".mp3":
		return codecMP3
	}
	return codecNone
}

// Decoder builds Ebitengine players from encoded sound files.
type Decoder struct {
	ctx        *eaudio.Context
	sampleRate int
}

// NewDecoder returns a decoder on the process audio context, creating the
// context at sampleRate if none exists yet.
func NewDecoder(sampleRate int) *Decoder {
	ctx := eaudio.CurrentContext()
	if ctx == nil {
		ctx = eaudio.NewContext(sampleRate)
	}
	return &Decoder{ctx: ctx, sampleRate: ctx.SampleRate()}
}

type stream interface {
	io.ReadSeeker
	Length() int64
}

// Decode picks a codec by the extension of name (.wav, .ogg, .mp3) and
// returns a player. Looping sounds wrap the stream in an infinite loop.
func (d *Decoder) Decode(name string, data []byte, loop bool) (audio.Track, error) {
	var (
		s   stream
		err error
	)
	r := bytes.NewReader(data)
	switch codecFor(name) {
	case codecWAV:
		s, err = wav.DecodeWithSampleRate(d.sampleRate, r)
	case codecVorbis:
		s, err = vorbis.DecodeWithSampleRate(d.sampleRate, r)
	case codecMP3:
		s, err = mp3.DecodeWithSampleRate(d.sampleRate, r)
	default:
		return nil, fmt.Errorf("decode %s: unsupported format %q", name, filepath.Ext(name))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	var src io.Reader = s
	if loop {
		src = eaudio.NewInfiniteLoop(s, s.Length())
	}
	p, err := d.ctx.NewPlayer(src)
	if err != nil {
		return nil, fmt.Errorf("player %s: %w", name, err)
	}
	return p, nil
}

// Load decodes data and adds it to m under opts.
func (d *Decoder) Load(m *audio.Mixer, name string, data []byte, opts audio.SoundOptions) (*audio.Sound, error) {
	t, err := d.Decode(name, data, opts.Loop)
	if err != nil {
		return nil, err
	}
	return m.Add(name, t, opts), nil
}

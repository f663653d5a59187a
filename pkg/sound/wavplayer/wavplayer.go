package wavplayer

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/logger"
)

const (
	sampleRate   = beep.SampleRate(44100)
	resampleQual = 4
)

var ErrClosed = errors.New("sound player closed")

type request struct {
	path string
	done chan error
}

// Player owns the speaker and plays one sound at a time, in the order asked.
type Player struct {
	requests chan request
}

func Init() *Player {
	p := &Player{requests: make(chan request)}
	go p.loop()
	return p
}

func (p *Player) loop() {
	log := logger.Get()
	drain := func(err error) {
		for r := range p.requests {
			log.Warn().Str("sound", r.path).Msg("Unable to play")
			r.done <- err
		}
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Sound loop failed")
			drain(fmt.Errorf("sound loop failed: %v", r))
		}
	}()

	err := speaker.Init(sampleRate, sampleRate.N(time.Second/5))
	if err != nil {
		log.Error().Err(err).Msg("Failed to open speaker")
		drain(fmt.Errorf("failed to open speaker: %w", err))
		return
	}

	for r := range p.requests {
		r.done <- play(r.path)
	}
}

// play returns once the whole file has gone to the speaker.
func play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open sound: %w", err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer s.Close()

	var streamer beep.Streamer = s
	if format.SampleRate != sampleRate {
		streamer = beep.Resample(resampleQual, format.SampleRate, sampleRate, s)
	}
	finished := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(finished)
	})))
	<-finished
	return nil
}

// PlayAndWait plays a wav file and returns when it has finished.  Sounds asked
// for while another is playing wait their turn.
func (p *Player) PlayAndWait(path string) (err error) {
	defer func() {
		if recover() != nil {
			err = ErrClosed
		}
	}()
	done := make(chan error, 1)
	p.requests <- request{path: path, done: done}
	return <-done
}

func (p *Player) Close() {
	close(p.requests)
}

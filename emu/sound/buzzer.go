package sound

import (
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneHz     = 440
	volume     = 0.25
)

// Buzzer implements emu.Buzzer with a square wave in place of the handheld's
// piezo pin. The speaker pulls samples on its own goroutine, so the active
// flag is the only shared state and it is atomic.
type Buzzer struct {
	active int32
}

func New() (*Buzzer, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	b := &Buzzer{}
	speaker.Play(&squareWave{buzzer: b})
	return b, nil
}

// SetActive implements emu.Buzzer.
func (b *Buzzer) SetActive(active bool) {
	var v int32
	if active {
		v = 1
	}
	atomic.StoreInt32(&b.active, v)
}

func (b *Buzzer) isActive() bool {
	return atomic.LoadInt32(&b.active) == 1
}

// squareWave streams a fixed tone while the buzzer is active and silence
// otherwise. It never ends; the gate is the active flag.
type squareWave struct {
	buzzer *Buzzer
	pos    int
}

func (s *squareWave) Stream(samples [][2]float64) (int, bool) {
	period := int(sampleRate) / toneHz
	for i := range samples {
		var v float64
		if s.buzzer.isActive() {
			if s.pos < period/2 {
				v = volume
			} else {
				v = -volume
			}
		}
		s.pos = (s.pos + 1) % period
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (s *squareWave) Err() error {
	return nil
}

package timer

// Timers are the delay and sound counters. Both count down at 60Hz while
// nonzero; the cadence comes from the scheduler's wall clock, never from the
// instruction rate.
type Timers struct {
	delay uint8
	sound uint8
}

func New() *Timers {
	return &Timers{}
}

// Tick decrements each nonzero timer by one. Must be called at 60Hz.
func (t *Timers) Tick() {
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
	}
}

func (t *Timers) SetDelay(v uint8) {
	t.delay = v
}

func (t *Timers) Delay() uint8 {
	return t.delay
}

func (t *Timers) SetSound(v uint8) {
	t.sound = v
}

// SoundActive is true while the sound timer is running. The buzzer driver
// mirrors this onto its pin.
func (t *Timers) SoundActive() bool {
	return t.sound > 0
}

func (t *Timers) Reset() {
	t.delay = 0
	t.sound = 0
}

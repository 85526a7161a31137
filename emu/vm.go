package emu

import (
	"log"
	"time"

	"pocket8/emu/cpu"
	"pocket8/emu/display"
	"pocket8/emu/keypad"
	"pocket8/emu/memory"
	"pocket8/emu/quirks"
	"pocket8/emu/timer"
)

const (
	// DefaultClockHz is the target instruction rate. Historical
	// interpreters sit in the 500-1000 range; games are unplayable if the
	// CPU free-runs.
	DefaultClockHz = 700

	// DefaultScanPeriod is how often the scheduler wakes to scan the
	// matrix and settle its cycle/timer debts.
	DefaultScanPeriod = time.Millisecond

	// timerPeriod is the fixed cadence of the delay/sound timers. It never
	// follows the instruction rate.
	timerPeriod = time.Second / 60
)

// Config is the construction-time surface: quirk flags, instruction rate and
// keypad tuning all arrive from external configuration.
type Config struct {
	Quirks     quirks.Quirks
	ClockHz    int
	Debounce   int
	ScanPeriod time.Duration
	Trace      bool
}

// VM is the owned aggregate of every machine entity. Subsystems hold no
// private copies of shared state; the CPU/scheduler pairing has exclusive
// write access and the external drivers only ever see read-only views.
type VM struct {
	Mem    *memory.Memory
	FB     *display.Framebuffer
	Keys   *keypad.Keypad
	Timers *timer.Timers
	CPU    *cpu.CPU

	cfg         cfgResolved
	cycleDebt   time.Duration
	timerDebt   time.Duration
	cyclePeriod time.Duration
}

type cfgResolved struct {
	clockHz    int
	scanPeriod time.Duration
	trace      bool
}

func New(cfg Config) *VM {
	if cfg.ClockHz <= 0 {
		cfg.ClockHz = DefaultClockHz
	}
	if cfg.ScanPeriod <= 0 {
		cfg.ScanPeriod = DefaultScanPeriod
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = keypad.DefaultDebounce
	}

	mem := memory.New()
	fb := display.New()
	keys := keypad.New(cfg.Debounce)
	timers := timer.New()

	return &VM{
		Mem:    mem,
		FB:     fb,
		Keys:   keys,
		Timers: timers,
		CPU:    cpu.New(mem, fb, keys, timers, cfg.Quirks),
		cfg: cfgResolved{
			clockHz:    cfg.ClockHz,
			scanPeriod: cfg.ScanPeriod,
			trace:      cfg.Trace,
		},
		cyclePeriod: time.Second / time.Duration(cfg.ClockHz),
	}
}

// LoadROM places the program bytes at 0x200. A ROM that does not fit fails
// here and the VM never starts.
func (vm *VM) LoadROM(rom []byte) error {
	return vm.Mem.LoadROM(rom)
}

// Reset re-initialises every entity and reloads the last ROM, bringing a
// Halted machine back to Running.
func (vm *VM) Reset() {
	vm.Mem.Reset()
	vm.FB.Clear()
	vm.Keys.Reset()
	vm.Timers.Reset()
	vm.CPU.Reset()
	vm.cycleDebt = 0
	vm.timerDebt = 0
}

// Run owns the scheduler loop. It returns nil when the quit signal fires and
// the fatal error otherwise; either way the CPU ends up Halted and control
// goes back to the caller.
func (vm *VM) Run(drv Drivers) error {
	ticker := time.NewTicker(vm.cfg.scanPeriod)
	defer ticker.Stop()

	last := time.Now()
	for now := range ticker.C {
		dt := now.Sub(last)
		last = now

		done, err := vm.step(dt, drv)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return nil
}

// step advances the machine by one slice of wall-clock time: scan, quit
// check, a budget of CPU cycles, timer ticks on their own 60Hz debt, then
// the peripheral hand-offs. Instruction throughput and timer cadence are
// deliberately settled from separate accumulators.
func (vm *VM) step(dt time.Duration, drv Drivers) (done bool, err error) {
	vm.Keys.Scan(drv.Matrix.ReadRawMatrix())

	if drv.Control.QuitRequested() {
		vm.CPU.Halt()
		return true, nil
	}

	if vm.CPU.Waiting() {
		if key, ok := vm.Keys.TakePress(); ok {
			vm.CPU.ResumeWithKey(key)
		}
	}

	if vm.CPU.Waiting() {
		// no progress while a key-wait is pending, and no burst of
		// banked cycles when it clears
		vm.cycleDebt = 0
	} else {
		vm.cycleDebt += dt
		cycles := int(vm.cycleDebt / vm.cyclePeriod)

		// cap the batch so a stall can't turn into a cycle burst
		max := vm.cfg.clockHz / 30
		if max < 1 {
			max = 1
		}
		if cycles > max {
			cycles = max
			vm.cycleDebt = 0
		} else {
			vm.cycleDebt -= time.Duration(cycles) * vm.cyclePeriod
		}

		for n := 0; n < cycles && !vm.CPU.Waiting(); n++ {
			if vm.cfg.trace {
				vm.trace()
			}
			if err := vm.CPU.Step(); err != nil {
				vm.CPU.Halt()
				return true, err
			}
		}
	}

	vm.timerDebt += dt
	for vm.timerDebt >= timerPeriod {
		vm.Timers.Tick()
		vm.timerDebt -= timerPeriod
	}

	if vm.FB.TakeDirty() {
		drv.Renderer.Present(vm.FB.Snapshot())
	}
	drv.Buzzer.SetActive(vm.Timers.SoundActive())

	return false, nil
}

func (vm *VM) trace() {
	pc := vm.CPU.PC()
	if raw, err := vm.Mem.ReadWord(pc); err == nil {
		log.Printf("%#04x: %04X  I=%#04x", pc, raw, vm.CPU.Index())
	}
}

package cpu

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"pocket8/emu/display"
	"pocket8/emu/keypad"
	"pocket8/emu/memory"
	"pocket8/emu/quirks"
	"pocket8/emu/timer"
)

var (
	// ErrUnknownOpcode is an instruction bit pattern the decoder does not
	// recognise. Malformed ROMs must fail loudly, not silently no-op.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrStackOverflow is a CALL past the fixed stack depth.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrStackUnderflow is a RET with no pending call.
	ErrStackUnderflow = errors.New("call stack underflow")
)

const stackDepth = 16

// State is the interpreter's execution state.
type State int

const (
	// Running executes one instruction per Step.
	Running State = iota

	// WaitingForKey withholds all progress until the key-wait opcode is
	// satisfied by a fresh keypress.
	WaitingForKey

	// Halted is terminal until an explicit Reset.
	Halted
)

// opcode is the decoded form of one 16-bit instruction.
type opcode struct {
	raw uint16
	x   int    // second nibble: Vx selector
	y   int    // third nibble: Vy selector
	n   uint8  // low nibble
	nn  uint8  // low byte
	nnn uint16 // low 12 bits
}

func decode(raw uint16) opcode {
	return opcode{
		raw: raw,
		x:   int(raw>>8) & 0xF,
		y:   int(raw>>4) & 0xF,
		n:   uint8(raw & 0xF),
		nn:  uint8(raw & 0xFF),
		nnn: raw & 0x0FFF,
	}
}

// CPU owns the register bank and call stack and drives every other entity
// through one fetch-decode-execute cycle per Step.
type CPU struct {
	v       [16]uint8
	i       uint16
	pc      uint16
	stack   [stackDepth]uint16
	sp      int
	state   State
	waitReg int // destination register of a pending key-wait

	rng *rand.Rand

	mem    *memory.Memory
	fb     *display.Framebuffer
	keys   *keypad.Keypad
	timers *timer.Timers
	quirks quirks.Quirks
}

func New(mem *memory.Memory, fb *display.Framebuffer, keys *keypad.Keypad, timers *timer.Timers, q quirks.Quirks) *CPU {
	return &CPU{
		pc:     memory.ROMStart,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		mem:    mem,
		fb:     fb,
		keys:   keys,
		timers: timers,
		quirks: q,
	}
}

// SeedRandom makes the CXNN opcode deterministic.
func (c *CPU) SeedRandom(seed int64) {
	c.rng = rand.New(rand.NewSource(seed))
}

func (c *CPU) State() State {
	return c.state
}

func (c *CPU) Waiting() bool {
	return c.state == WaitingForKey
}

// Halt moves the CPU to the terminal state. Used for the quit signal and for
// fatal errors.
func (c *CPU) Halt() {
	c.state = Halted
}

// Reset restores the register bank, stack and execution state to their
// power-on values. Memory, display, keypad and timers reset separately.
func (c *CPU) Reset() {
	c.v = [16]uint8{}
	c.i = 0
	c.pc = memory.ROMStart
	c.stack = [stackDepth]uint16{}
	c.sp = 0
	c.state = Running
	c.waitReg = 0
}

// PC returns the current program counter.
func (c *CPU) PC() uint16 {
	return c.pc
}

// Index returns the current value of I.
func (c *CPU) Index() uint16 {
	return c.i
}

// Register returns the current value of Vx.
func (c *CPU) Register(x int) uint8 {
	return c.v[x&0xF]
}

// ResumeWithKey completes a pending key-wait: the key's code lands in the
// latched destination register and execution resumes. PC was already
// advanced when the opcode was fetched, so no further adjustment happens.
func (c *CPU) ResumeWithKey(key uint8) {
	if c.state != WaitingForKey {
		return
	}
	c.v[c.waitReg] = key & 0xF
	c.state = Running
}

// Step performs one fetch-decode-execute cycle. It does nothing unless the
// CPU is Running. Any returned error is fatal to the run.
func (c *CPU) Step() error {
	if c.state != Running {
		return nil
	}

	addr := c.pc
	raw, err := c.mem.ReadWord(addr)
	if err != nil {
		return err
	}
	c.pc += 2

	if err := c.execute(decode(raw)); err != nil {
		if errors.Is(err, ErrUnknownOpcode) {
			return fmt.Errorf("%w: %#04x at %#04x", ErrUnknownOpcode, raw, addr)
		}
		return fmt.Errorf("%w (pc %#04x)", err, addr)
	}
	return nil
}

func (c *CPU) execute(op opcode) error {
	switch op.raw >> 12 {
	case 0x0:
		switch op.nn {
		case 0xE0: // CLS
			c.fb.Clear()
		case 0xEE: // RET
			if c.sp == 0 {
				return ErrStackUnderflow
			}
			c.sp--
			c.pc = c.stack[c.sp]
		default:
			// 0NNN machine-code call: recognised and ignored
		}

	case 0x1: // JP nnn
		c.pc = op.nnn

	case 0x2: // CALL nnn
		if c.sp == stackDepth {
			return ErrStackOverflow
		}
		c.stack[c.sp] = c.pc
		c.sp++
		c.pc = op.nnn

	case 0x3: // SE Vx, nn
		if c.v[op.x] == op.nn {
			c.pc += 2
		}

	case 0x4: // SNE Vx, nn
		if c.v[op.x] != op.nn {
			c.pc += 2
		}

	case 0x5: // SE Vx, Vy
		if op.n != 0 {
			return ErrUnknownOpcode
		}
		if c.v[op.x] == c.v[op.y] {
			c.pc += 2
		}

	case 0x6: // LD Vx, nn
		c.v[op.x] = op.nn

	case 0x7: // ADD Vx, nn (no carry)
		c.v[op.x] += op.nn

	case 0x8:
		return c.executeALU(op)

	case 0x9: // SNE Vx, Vy
		if op.n != 0 {
			return ErrUnknownOpcode
		}
		if c.v[op.x] != c.v[op.y] {
			c.pc += 2
		}

	case 0xA: // LD I, nnn
		c.i = op.nnn

	case 0xB: // JP V0/Vx, nnn
		src := 0
		if c.quirks.Jump {
			src = op.x
		}
		c.pc = op.nnn + uint16(c.v[src])

	case 0xC: // RND Vx, nn
		c.v[op.x] = uint8(c.rng.Intn(256)) & op.nn

	case 0xD: // DRW Vx, Vy, n
		return c.executeDraw(op)

	case 0xE:
		switch op.nn {
		case 0x9E: // SKP Vx
			if c.keys.IsDown(c.v[op.x]) {
				c.pc += 2
			}
		case 0xA1: // SKNP Vx
			if !c.keys.IsDown(c.v[op.x]) {
				c.pc += 2
			}
		default:
			return ErrUnknownOpcode
		}

	case 0xF:
		return c.executeMisc(op)
	}
	return nil
}

// executeALU handles the 8xyN register-to-register group.
func (c *CPU) executeALU(op opcode) error {
	switch op.n {
	case 0x0: // LD Vx, Vy
		c.v[op.x] = c.v[op.y]

	case 0x1: // OR
		c.v[op.x] |= c.v[op.y]
		if c.quirks.VFReset {
			c.v[0xF] = 0
		}

	case 0x2: // AND
		c.v[op.x] &= c.v[op.y]
		if c.quirks.VFReset {
			c.v[0xF] = 0
		}

	case 0x3: // XOR
		c.v[op.x] ^= c.v[op.y]
		if c.quirks.VFReset {
			c.v[0xF] = 0
		}

	case 0x4: // ADD with carry
		sum := uint16(c.v[op.x]) + uint16(c.v[op.y])
		c.v[op.x] = uint8(sum)
		if sum > 0xFF {
			c.v[0xF] = 1
		} else {
			c.v[0xF] = 0
		}

	case 0x5: // SUB: Vx = Vx - Vy, VF = not borrow
		borrow := c.v[op.y] > c.v[op.x]
		c.v[op.x] -= c.v[op.y]
		if borrow {
			c.v[0xF] = 0
		} else {
			c.v[0xF] = 1
		}

	case 0x6: // SHR
		src := op.y
		if c.quirks.Shift {
			src = op.x
		}
		lsb := c.v[src] & 0x1
		c.v[op.x] = c.v[src] >> 1
		c.v[0xF] = lsb

	case 0x7: // SUBN: Vx = Vy - Vx, VF = not borrow
		borrow := c.v[op.x] > c.v[op.y]
		c.v[op.x] = c.v[op.y] - c.v[op.x]
		if borrow {
			c.v[0xF] = 0
		} else {
			c.v[0xF] = 1
		}

	case 0xE: // SHL
		src := op.y
		if c.quirks.Shift {
			src = op.x
		}
		msb := c.v[src] >> 7
		c.v[op.x] = c.v[src] << 1
		c.v[0xF] = msb

	default:
		return ErrUnknownOpcode
	}
	return nil
}

func (c *CPU) executeDraw(op opcode) error {
	rows := make([]uint8, 0, op.n)
	for k := uint16(0); k < uint16(op.n); k++ {
		b, err := c.mem.ReadByte(c.i + k)
		if err != nil {
			return err
		}
		rows = append(rows, b)
	}

	if c.fb.Draw(c.v[op.x], c.v[op.y], rows, c.quirks.Clip) {
		c.v[0xF] = 1
	} else {
		c.v[0xF] = 0
	}
	return nil
}

// executeMisc handles the FxNN group.
func (c *CPU) executeMisc(op opcode) error {
	switch op.nn {
	case 0x07: // LD Vx, DT
		c.v[op.x] = c.timers.Delay()

	case 0x0A: // LD Vx, K
		// suspend: the scheduler keeps scanning and resumes us through
		// ResumeWithKey on the next fresh keypress
		c.waitReg = op.x
		c.state = WaitingForKey

	case 0x15: // LD DT, Vx
		c.timers.SetDelay(c.v[op.x])

	case 0x18: // LD ST, Vx
		c.timers.SetSound(c.v[op.x])

	case 0x1E: // ADD I, Vx
		sum := c.i + uint16(c.v[op.x])
		if sum < c.i {
			c.v[0xF] = 1
		} else {
			c.v[0xF] = 0
		}
		c.i = sum

	case 0x29: // LD F, Vx
		c.i = memory.FontAddress(c.v[op.x])

	case 0x33: // LD B, Vx
		val := c.v[op.x]
		if err := c.mem.WriteByte(c.i, val/100); err != nil {
			return err
		}
		if err := c.mem.WriteByte(c.i+1, (val%100)/10); err != nil {
			return err
		}
		if err := c.mem.WriteByte(c.i+2, val%10); err != nil {
			return err
		}

	case 0x55: // LD [I], Vx
		for step := 0; step <= op.x; step++ {
			if err := c.mem.WriteByte(c.i+uint16(step), c.v[step]); err != nil {
				return err
			}
		}
		if !c.quirks.LoadStore {
			c.i += uint16(op.x) + 1
		}

	case 0x65: // LD Vx, [I]
		for step := 0; step <= op.x; step++ {
			b, err := c.mem.ReadByte(c.i + uint16(step))
			if err != nil {
				return err
			}
			c.v[step] = b
		}
		if !c.quirks.LoadStore {
			c.i += uint16(op.x) + 1
		}

	default:
		return ErrUnknownOpcode
	}
	return nil
}

package memory

import (
	"errors"
	"fmt"
)

const (
	// Size is the machine's full addressable range.
	Size = 4096

	// ROMStart is where program bytes are loaded; everything below is
	// reserved for the interpreter and font data.
	ROMStart = 0x200

	// FontStart is where the built-in hex digit sprites live.
	FontStart = 0x50

	maxROMSize = Size - ROMStart
)

var (
	// ErrOutOfBounds is a memory access outside the addressable range.
	ErrOutOfBounds = errors.New("memory access out of bounds")

	// ErrROMTooLarge is a ROM that does not fit above ROMStart.
	ErrROMTooLarge = errors.New("ROM too large")
)

// fontSet holds the sixteen 5-byte hex digit sprites.
var fontSet = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4K byte store. It keeps the last loaded ROM so a reset
// can restore the machine to its freshly-loaded state.
type Memory struct {
	bytes [Size]uint8
	rom   []byte
}

func New() *Memory {
	m := &Memory{}
	m.loadFont()
	return m
}

func (m *Memory) loadFont() {
	copy(m.bytes[FontStart:], fontSet[:])
}

// LoadROM copies rom into memory starting at ROMStart and remembers it for
// later resets.
func (m *Memory) LoadROM(rom []byte) error {
	if len(rom) > maxROMSize {
		return fmt.Errorf("%w: %d bytes, %d available", ErrROMTooLarge, len(rom), maxROMSize)
	}
	m.rom = append(m.rom[:0], rom...)
	copy(m.bytes[ROMStart:], rom)
	return nil
}

// Reset clears all of memory, then restores the font and the last loaded ROM.
func (m *Memory) Reset() {
	m.bytes = [Size]uint8{}
	m.loadFont()
	copy(m.bytes[ROMStart:], m.rom)
}

func (m *Memory) ReadByte(addr uint16) (uint8, error) {
	if int(addr) >= Size {
		return 0, fmt.Errorf("%w: read at %#04x", ErrOutOfBounds, addr)
	}
	return m.bytes[addr], nil
}

func (m *Memory) WriteByte(addr uint16, v uint8) error {
	if int(addr) >= Size {
		return fmt.Errorf("%w: write at %#04x", ErrOutOfBounds, addr)
	}
	m.bytes[addr] = v
	return nil
}

// ReadWord reads the big-endian 16-bit value at addr. Instructions are
// fetched this way.
func (m *Memory) ReadWord(addr uint16) (uint16, error) {
	if int(addr)+1 >= Size {
		return 0, fmt.Errorf("%w: word read at %#04x", ErrOutOfBounds, addr)
	}
	return uint16(m.bytes[addr])<<8 | uint16(m.bytes[addr+1]), nil
}

// FontAddress returns the location of the sprite for a hex digit.
func FontAddress(digit uint8) uint16 {
	return FontStart + uint16(digit&0xF)*5
}

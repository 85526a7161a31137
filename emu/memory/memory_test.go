package memory

import (
	"errors"
	"testing"
)

func TestNewLoadsFont(t *testing.T) {
	m := New()

	for i, want := range fontSet {
		got, err := m.ReadByte(FontStart + uint16(i))
		if err != nil {
			t.Fatalf("ReadByte(%#04x): %v", FontStart+i, err)
		}
		if got != want {
			t.Errorf("font byte %d: got %#02x, want %#02x", i, got, want)
		}
	}
}

func TestFontAddress(t *testing.T) {
	if got := FontAddress(0); got != FontStart {
		t.Errorf("FontAddress(0) = %#04x, want %#04x", got, FontStart)
	}
	if got := FontAddress(0xA); got != FontStart+50 {
		t.Errorf("FontAddress(0xA) = %#04x, want %#04x", got, FontStart+50)
	}
	// digit is masked to a nibble
	if got := FontAddress(0x1F); got != FontAddress(0xF) {
		t.Errorf("FontAddress(0x1F) = %#04x, want %#04x", got, FontAddress(0xF))
	}
}

func TestLoadROM(t *testing.T) {
	tests := []struct {
		name    string
		rom     []byte
		wantErr bool
	}{
		{name: "fits exactly", rom: make([]byte, Size-ROMStart), wantErr: false},
		{name: "one byte over", rom: make([]byte, Size-ROMStart+1), wantErr: true},
		{name: "empty", rom: nil, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			err := m.LoadROM(tt.rom)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadROM: error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrROMTooLarge) {
				t.Errorf("LoadROM: error = %v, want ErrROMTooLarge", err)
			}
		})
	}
}

func TestLoadROMPlacement(t *testing.T) {
	m := New()
	if err := m.LoadROM([]byte{0x00, 0xE0, 0x12, 0x02}); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	word, err := m.ReadWord(ROMStart)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if word != 0x00E0 {
		t.Errorf("first instruction: got %#04x, want 0x00e0", word)
	}

	word, err = m.ReadWord(ROMStart + 2)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if word != 0x1202 {
		t.Errorf("second instruction: got %#04x, want 0x1202", word)
	}
}

func TestBounds(t *testing.T) {
	m := New()

	if _, err := m.ReadByte(Size); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadByte(Size): error = %v, want ErrOutOfBounds", err)
	}
	if err := m.WriteByte(Size, 0xFF); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("WriteByte(Size): error = %v, want ErrOutOfBounds", err)
	}
	// a word read needs two bytes, so the last valid start is Size-2
	if _, err := m.ReadWord(Size - 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadWord(Size-1): error = %v, want ErrOutOfBounds", err)
	}
	if _, err := m.ReadWord(Size - 2); err != nil {
		t.Errorf("ReadWord(Size-2): unexpected error %v", err)
	}
}

func TestReset(t *testing.T) {
	m := New()
	if err := m.LoadROM([]byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	// scribble over the ROM and some free space
	if err := m.WriteByte(ROMStart, 0x00); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if err := m.WriteByte(0x300, 0x42); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}

	m.Reset()

	if got, _ := m.ReadByte(ROMStart); got != 0xAA {
		t.Errorf("ROM byte after reset: got %#02x, want 0xaa", got)
	}
	if got, _ := m.ReadByte(0x300); got != 0 {
		t.Errorf("free space after reset: got %#02x, want 0", got)
	}
	if got, _ := m.ReadByte(FontStart); got != 0xF0 {
		t.Errorf("font after reset: got %#02x, want 0xf0", got)
	}
}

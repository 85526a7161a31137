package quirks

import (
	"fmt"
	"strings"
)

// Quirks selects between the opcode dialects that diverged across historical
// CHIP-8 interpreters. The set is fixed at VM construction and read every
// cycle by the interpreter.
type Quirks struct {
	// LoadStore leaves I unchanged after Fx55/Fx65. When unset, I advances
	// by the number of registers transferred (COSMAC behaviour).
	LoadStore bool

	// Shift makes 8xy6/8xyE operate on Vx in place. When unset, the shift
	// reads Vy and stores into Vx (COSMAC behaviour).
	Shift bool

	// Jump makes BNNN take its offset from Vx, where x is the high nibble
	// of NNN. When unset, the offset always comes from V0.
	Jump bool

	// VFReset clears VF after 8xy1/8xy2/8xy3, as the original hardware did.
	VFReset bool

	// Clip discards sprite pixels that fall off the framebuffer instead of
	// wrapping them.
	Clip bool
}

// Legacy is the original COSMAC VIP dialect.
func Legacy() Quirks {
	return Quirks{VFReset: true}
}

// Modern is the SUPER-CHIP-influenced dialect most current ROMs target.
func Modern() Quirks {
	return Quirks{LoadStore: true, Shift: true, Jump: true, Clip: true}
}

// Profile returns the preset for a named dialect.
func Profile(name string) (Quirks, error) {
	switch strings.ToLower(name) {
	case "legacy":
		return Legacy(), nil
	case "modern":
		return Modern(), nil
	}
	return Quirks{}, fmt.Errorf("unknown quirk profile %q", name)
}

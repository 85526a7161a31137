package display

const (
	Width  = 64
	Height = 32
)

// Frame is a point-in-time copy of the framebuffer, handed to the renderer.
// The physical driver translates it into whatever the panel wants; the core
// never touches hardware.
type Frame [Height][Width]bool

// Framebuffer is the 64x32 monochrome bit grid. Only the draw opcode and
// Clear mutate it.
type Framebuffer struct {
	pix   Frame
	dirty bool
}

func New() *Framebuffer {
	// dirty from the start so the first frame reaches the renderer
	return &Framebuffer{dirty: true}
}

// Clear unsets every pixel.
func (fb *Framebuffer) Clear() {
	fb.pix = Frame{}
	fb.dirty = true
}

// Draw XOR-blits sprite rows at (x, y) and reports whether any pixel went
// from set to unset. The origin always wraps to the grid; pixels extending
// past the edge wrap too, unless clip is set, in which case they are dropped
// and never count as collisions.
func (fb *Framebuffer) Draw(x, y uint8, rows []uint8, clip bool) bool {
	ox := int(x) % Width
	oy := int(y) % Height
	collided := false

	for r, row := range rows {
		py := oy + r
		if clip && py >= Height {
			continue
		}
		py %= Height

		for bit := 0; bit < 8; bit++ {
			if row&(0x80>>bit) == 0 {
				continue
			}
			px := ox + bit
			if clip && px >= Width {
				continue
			}
			px %= Width

			if fb.pix[py][px] {
				collided = true
			}
			fb.pix[py][px] = !fb.pix[py][px]
		}
	}

	fb.dirty = true
	return collided
}

// Pixel reports the state of a single pixel. Coordinates must be in range.
func (fb *Framebuffer) Pixel(x, y int) bool {
	return fb.pix[y][x]
}

// Snapshot returns a copy of the current frame.
func (fb *Framebuffer) Snapshot() Frame {
	return fb.pix
}

// TakeDirty reports whether the framebuffer changed since the last call and
// resets the flag. The scheduler uses this to skip redundant hardware writes.
func (fb *Framebuffer) TakeDirty() bool {
	d := fb.dirty
	fb.dirty = false
	return d
}

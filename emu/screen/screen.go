package screen

import (
	"image"
	"image/color"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"

	"pocket8/emu/display"
	"pocket8/emu/keypad"
)

// keyMap lays the 4x4 CHIP-8 pad over the left-hand block of a QWERTY
// keyboard:
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   ->   Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
var keyMap = [keypad.NumKeys]pixelgl.Button{
	0x0: pixelgl.KeyX,
	0x1: pixelgl.Key1,
	0x2: pixelgl.Key2,
	0x3: pixelgl.Key3,
	0x4: pixelgl.KeyQ,
	0x5: pixelgl.KeyW,
	0x6: pixelgl.KeyE,
	0x7: pixelgl.KeyA,
	0x8: pixelgl.KeyS,
	0x9: pixelgl.KeyD,
	0xA: pixelgl.KeyZ,
	0xB: pixelgl.KeyC,
	0xC: pixelgl.Key4,
	0xD: pixelgl.KeyR,
	0xE: pixelgl.KeyF,
	0xF: pixelgl.KeyV,
}

// Window is the development front-end. It stands in for the handheld's
// SSD1309/SPI display, the key matrix and the quit button, implementing
// emu.Renderer, emu.Matrix and emu.Control. Must be used from the pixelgl
// main thread.
type Window struct {
	win   *pixelgl.Window
	scale float64
}

func New(title string, scale float64) (*Window, error) {
	if scale <= 0 {
		scale = 10
	}
	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, display.Width*scale, display.Height*scale),
		// the scheduler paces itself; vsync would fight it
		VSync: false,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, err
	}
	return &Window{win: win, scale: scale}, nil
}

// Present implements emu.Renderer.
func (w *Window) Present(frame display.Frame) {
	img := image.NewRGBA(image.Rect(0, 0, display.Width, display.Height))
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			if frame[y][x] {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}

	pic := pixel.PictureDataFromImage(img)
	sprite := pixel.NewSprite(pic, pic.Bounds())

	w.win.Clear(color.Black)
	center := w.win.Bounds().Center()
	sprite.Draw(w.win, pixel.IM.Moved(center).Scaled(center, w.scale))
	w.win.Update()
}

// ReadRawMatrix implements emu.Matrix. The keyboard reading is already
// bounce-free; the debounce layer treats it like any other raw source.
func (w *Window) ReadRawMatrix() [keypad.NumKeys]bool {
	w.win.UpdateInput()

	var raw [keypad.NumKeys]bool
	for key, button := range keyMap {
		raw[key] = w.win.Pressed(button)
	}
	return raw
}

// QuitRequested implements emu.Control. Closing the window or pressing
// escape plays the part of the physical quit button.
func (w *Window) QuitRequested() bool {
	return w.win.Closed() || w.win.JustPressed(pixelgl.KeyEscape)
}

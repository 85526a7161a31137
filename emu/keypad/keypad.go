package keypad

// NumKeys is the size of the 4x4 matrix.
const NumKeys = 16

// DefaultDebounce is the number of consecutive raw reads that must disagree
// with the current logical state before a key flips. Two is enough for the
// fitted tact switches.
const DefaultDebounce = 2

// Keypad holds the debounced logical state of the 16 keys. The raw matrix
// reading comes from the external driver once per scheduler scan; everything
// electrical stays on the other side of that boundary.
type Keypad struct {
	down     [NumKeys]bool
	unstable [NumKeys]int // consecutive scans the raw read disagreed with down
	debounce int
	pressed  int // key that rose on the latest scan, -1 if none
}

func New(debounce int) *Keypad {
	if debounce < 1 {
		debounce = DefaultDebounce
	}
	return &Keypad{debounce: debounce, pressed: -1}
}

// Scan folds one raw matrix reading into the logical state. A key flips only
// after the raw reading has disagreed with it for the configured number of
// consecutive scans, which rejects contact bounce.
func (k *Keypad) Scan(raw [NumKeys]bool) {
	k.pressed = -1
	for i := 0; i < NumKeys; i++ {
		if raw[i] == k.down[i] {
			k.unstable[i] = 0
			continue
		}
		k.unstable[i]++
		if k.unstable[i] < k.debounce {
			continue
		}
		k.unstable[i] = 0
		k.down[i] = !k.down[i]
		if k.down[i] && k.pressed < 0 {
			k.pressed = i
		}
	}
}

// IsDown reports the debounced state of a key.
func (k *Keypad) IsDown(key uint8) bool {
	return k.down[key&0xF]
}

// TakePress returns the key that transitioned from up to down on the latest
// scan, consuming it. The key-wait opcode resumes on this edge.
func (k *Keypad) TakePress() (uint8, bool) {
	if k.pressed < 0 {
		return 0, false
	}
	key := uint8(k.pressed)
	k.pressed = -1
	return key, true
}

// Reset releases every key and clears pending debounce counts.
func (k *Keypad) Reset() {
	*k = Keypad{debounce: k.debounce, pressed: -1}
}

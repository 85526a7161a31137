package keypad

import "testing"

func raw(keys ...int) [NumKeys]bool {
	var r [NumKeys]bool
	for _, k := range keys {
		r[k] = true
	}
	return r
}

func TestDebounceRequiresStableReads(t *testing.T) {
	k := New(2)

	k.Scan(raw(7))
	if k.IsDown(7) {
		t.Error("key flipped after a single raw read")
	}

	k.Scan(raw(7))
	if !k.IsDown(7) {
		t.Error("key did not flip after two consecutive raw reads")
	}
}

func TestDebounceRejectsBounce(t *testing.T) {
	k := New(3)

	// alternating reads never satisfy the stable count
	for i := 0; i < 10; i++ {
		k.Scan(raw(5))
		k.Scan(raw())
	}
	if k.IsDown(5) {
		t.Error("bouncing contact flipped the logical key state")
	}
}

func TestRelease(t *testing.T) {
	k := New(2)
	k.Scan(raw(3))
	k.Scan(raw(3))
	if !k.IsDown(3) {
		t.Fatal("key not down after debounce")
	}

	k.Scan(raw())
	if !k.IsDown(3) {
		t.Error("key released after a single low read")
	}
	k.Scan(raw())
	if k.IsDown(3) {
		t.Error("key still down after debounced release")
	}
}

func TestTakePress(t *testing.T) {
	k := New(2)

	if _, ok := k.TakePress(); ok {
		t.Error("TakePress reported a press on a fresh keypad")
	}

	k.Scan(raw(0xB))
	k.Scan(raw(0xB))

	key, ok := k.TakePress()
	if !ok || key != 0xB {
		t.Fatalf("TakePress = (%#x, %v), want (0xb, true)", key, ok)
	}

	// consumed: a held key is not a new press
	if _, ok := k.TakePress(); ok {
		t.Error("TakePress returned the same press twice")
	}
	k.Scan(raw(0xB))
	if _, ok := k.TakePress(); ok {
		t.Error("holding a key registered as a new press")
	}

	// release is not a press
	k.Scan(raw())
	k.Scan(raw())
	if _, ok := k.TakePress(); ok {
		t.Error("a release registered as a press")
	}
}

func TestDebounceOfOneIsImmediate(t *testing.T) {
	k := New(1)
	k.Scan(raw(2))
	if !k.IsDown(2) {
		t.Error("debounce of 1 should flip on the first read")
	}
}

func TestReset(t *testing.T) {
	k := New(2)
	k.Scan(raw(4))
	k.Scan(raw(4))

	k.Reset()
	if k.IsDown(4) {
		t.Error("key still down after Reset")
	}
	if _, ok := k.TakePress(); ok {
		t.Error("pending press survived Reset")
	}
}

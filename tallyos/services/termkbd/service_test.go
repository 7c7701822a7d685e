package termkbd

import (
	"bytes"
	"testing"

	"tally/hal"
)

func TestVT100FromKey(t *testing.T) {
	cases := []struct {
		ev   hal.KeyEvent
		want []byte
	}{
		{hal.KeyEvent{Press: true, Rune: '7'}, []byte("7")},
		{hal.KeyEvent{Press: true, Rune: '+'}, []byte("+")},
		{hal.KeyEvent{Press: true, Code: hal.KeyEnter}, []byte{'\n'}},
		{hal.KeyEvent{Press: true, Code: hal.KeyEscape}, []byte{0x1b}},
		{hal.KeyEvent{Press: true, Code: hal.KeyBackspace}, []byte{0x7f}},
		{hal.KeyEvent{Press: true, Code: hal.KeyDelete}, []byte("\x1b[3~")},
		{hal.KeyEvent{Press: true, Code: hal.KeyUnknown}, nil},
	}
	for _, c := range cases {
		if got := vt100FromKey(c.ev); !bytes.Equal(got, c.want) {
			t.Fatalf("key %+v: expected %q, got %q", c.ev, c.want, got)
		}
	}
}

func TestRepeatableKey(t *testing.T) {
	bs := hal.KeyEvent{Press: true, Code: hal.KeyBackspace}
	if !repeatableKey(bs, vt100FromKey(bs)) {
		t.Fatal("expected backspace to repeat")
	}
	enter := hal.KeyEvent{Press: true, Code: hal.KeyEnter}
	if repeatableKey(enter, vt100FromKey(enter)) {
		t.Fatal("enter must not auto-repeat")
	}
	digit := hal.KeyEvent{Press: true, Rune: '5'}
	if repeatableKey(digit, vt100FromKey(digit)) {
		t.Fatal("digits must not auto-repeat")
	}
}

func TestRepeatCadence(t *testing.T) {
	s := &Service{heldData: []byte{0x7f}, nextRepeatTick: 100}

	s.handleRepeat(99)
	if len(s.pending) != 0 {
		t.Fatal("expected no repeat before the delay elapses")
	}

	s.handleRepeat(100)
	if !bytes.Equal(s.pending, []byte{0x7f}) {
		t.Fatalf("expected one repeated byte, got %q", s.pending)
	}
	if s.nextRepeatTick != 100+repeatRateTicks {
		t.Fatalf("expected next repeat at %d, got %d", 100+repeatRateTicks, s.nextRepeatTick)
	}
}

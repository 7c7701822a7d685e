package calc

import "testing"

func TestNextKeyRunes(t *testing.T) {
	n, k, ok := nextKey([]byte("7+"))
	if !ok || n != 1 || k.kind != keyRune || k.r != '7' {
		t.Fatalf("expected rune '7', got n=%d k=%+v ok=%v", n, k, ok)
	}
}

func TestNextKeyControls(t *testing.T) {
	cases := []struct {
		in   []byte
		n    int
		kind keyKind
	}{
		{[]byte("\n"), 1, keyEnter},
		{[]byte("\r"), 1, keyEnter},
		{[]byte{0x7f}, 1, keyBackspace},
		{[]byte{0x08}, 1, keyBackspace},
		{[]byte{0x1b}, 1, keyEsc},
		{[]byte("\x1b[3~"), 4, keyDelete},
		{[]byte("\x1b[A"), 3, keyOther},
		{[]byte{0x01}, 1, keyOther},
	}
	for _, c := range cases {
		n, k, ok := nextKey(c.in)
		if !ok || n != c.n || k.kind != c.kind {
			t.Fatalf("input %q: expected n=%d kind=%d, got n=%d k=%+v ok=%v",
				c.in, c.n, c.kind, n, k, ok)
		}
	}
}

func TestNextKeyIncompleteSequences(t *testing.T) {
	for _, in := range [][]byte{
		{},
		[]byte("\x1b["),
		[]byte("\x1b[3"),
		{0xC3}, // first byte of a two-byte UTF-8 rune
	} {
		if n, _, ok := nextKey(in); ok || n != 0 {
			t.Fatalf("input %q: expected incomplete, got n=%d ok=%v", in, n, ok)
		}
	}
}

func TestNextKeyBareEscapeBeforeText(t *testing.T) {
	// ESC followed by a non-CSI byte is a standalone escape press.
	n, k, ok := nextKey([]byte{0x1b, '5'})
	if !ok || n != 1 || k.kind != keyEsc {
		t.Fatalf("expected bare escape, got n=%d k=%+v ok=%v", n, k, ok)
	}
}

func TestKeyFromRune(t *testing.T) {
	if k, ok := keyFromRune('5'); !ok || k.Digit != 5 {
		t.Fatalf("expected digit 5, got %+v ok=%v", k, ok)
	}
	for _, r := range "+-*/%=.scxSCX" {
		if _, ok := keyFromRune(r); !ok {
			t.Fatalf("expected %q to map to a key", r)
		}
	}
	for _, r := range "abz#!" {
		if _, ok := keyFromRune(r); ok {
			t.Fatalf("expected %q to stay unmapped", r)
		}
	}
}

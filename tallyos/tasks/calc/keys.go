package calc

import "unicode/utf8"

type keyKind uint8

const (
	keyRune keyKind = iota
	keyEnter
	keyBackspace
	keyDelete
	keyEsc
	keyOther
)

type key struct {
	kind keyKind
	r    rune
}

// nextKey decodes one key from a VT100 byte stream. It returns ok=false when
// the buffer starts with an incomplete sequence; the caller keeps the bytes
// and retries once more input arrives.
func nextKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) == 0 {
		return 0, key{}, false
	}

	if b[0] == 0x1b {
		return parseEscapeKey(b)
	}

	switch b[0] {
	case '\r', '\n':
		return 1, key{kind: keyEnter}, true
	case 0x7f, 0x08:
		return 1, key{kind: keyBackspace}, true
	}

	if b[0] < 0x20 {
		return 1, key{kind: keyOther}, true
	}
	if !utf8.FullRune(b) {
		return 0, key{}, false
	}
	r, sz := utf8.DecodeRune(b)
	if r == utf8.RuneError && sz == 1 {
		return 1, key{kind: keyOther}, true
	}
	return sz, key{kind: keyRune, r: r}, true
}

func parseEscapeKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) < 2 {
		return 1, key{kind: keyEsc}, true
	}
	if b[1] != '[' {
		return 1, key{kind: keyEsc}, true
	}
	if len(b) < 3 {
		return 0, key{}, false
	}

	if b[2] < '0' || b[2] > '9' {
		// Single final byte CSI (arrows, home, end): consumed, not mapped.
		return 3, key{kind: keyOther}, true
	}

	n := 0
	i := 2
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		n = n*10 + int(b[i]-'0')
		i++
	}
	if i >= len(b) {
		return 0, key{}, false
	}
	if b[i] != '~' {
		return 1, key{kind: keyEsc}, true
	}
	consumed = i + 1
	if n == 3 {
		return consumed, key{kind: keyDelete}, true
	}
	return consumed, key{kind: keyOther}, true
}

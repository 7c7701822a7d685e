//go:build !tinygo

package hal

import "testing"

func TestRGB565RoundTrip(t *testing.T) {
	cases := []struct{ r, g, b uint8 }{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
	}
	for _, c := range cases {
		r, g, b := rgb888From565(rgb565(c.r, c.g, c.b))
		if r != c.r || g != c.g || b != c.b {
			t.Fatalf("rgb(%d,%d,%d): round-tripped to (%d,%d,%d)", c.r, c.g, c.b, r, g, b)
		}
	}
}

func TestHostFramebufferClear(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	if fb.StrideBytes() != 8 {
		t.Fatalf("expected stride 8, got %d", fb.StrideBytes())
	}
	fb.ClearRGB(255, 0, 0)

	want := rgb565(255, 0, 0)
	buf := fb.Buffer()
	for i := 0; i+1 < len(buf); i += 2 {
		got := uint16(buf[i]) | uint16(buf[i+1])<<8
		if got != want {
			t.Fatalf("pixel %d: expected %04x, got %04x", i/2, want, got)
		}
	}

	snap := make([]byte, len(buf))
	fb.snapshotRGB565(snap)
	if snap[0] != buf[0] || snap[1] != buf[1] {
		t.Fatal("snapshot does not match framebuffer contents")
	}
}

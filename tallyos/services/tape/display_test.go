package tape

import (
	"image/color"
	"testing"

	"tally/hal"
)

type fakeFramebuffer struct {
	w, h     int
	buf      []byte
	presents int
}

func newFakeFramebuffer(w, h int) *fakeFramebuffer {
	return &fakeFramebuffer{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *fakeFramebuffer) Width() int              { return f.w }
func (f *fakeFramebuffer) Height() int             { return f.h }
func (f *fakeFramebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFramebuffer) StrideBytes() int        { return f.w * 2 }
func (f *fakeFramebuffer) Buffer() []byte          { return f.buf }
func (f *fakeFramebuffer) ClearRGB(r, g, b uint8)  {}
func (f *fakeFramebuffer) Present() error {
	f.presents++
	return nil
}

func (f *fakeFramebuffer) pixel(x, y int) uint16 {
	off := y*f.StrideBytes() + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func TestRegionSetPixelOffset(t *testing.T) {
	fb := newFakeFramebuffer(4, 6)
	d := newFBRegion(fb, 2, 4)

	if w, h := d.Size(); w != 4 || h != 4 {
		t.Fatalf("expected size 4x4, got %dx%d", w, h)
	}

	d.SetPixel(1, 0, white)
	if fb.pixel(1, 2) == 0 {
		t.Fatal("expected pixel written at framebuffer row 2")
	}
	if fb.pixel(1, 0) != 0 {
		t.Fatal("pixel must not land above the region")
	}

	// Outside the band: dropped.
	d.SetPixel(1, 4, white)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if fb.pixel(x, y) != 0 {
				t.Fatalf("pixel (%d,%d) outside region was written", x, y)
			}
		}
	}
}

func TestRegionScrollUp(t *testing.T) {
	fb := newFakeFramebuffer(4, 6)
	d := newFBRegion(fb, 2, 4)

	// Mark region row 1; after scrolling one line it must appear on row 0.
	d.SetPixel(0, 1, white)
	if err := d.ScrollUp(1, color.RGBA{A: 255}); err != nil {
		t.Fatalf("scroll: %v", err)
	}
	if fb.pixel(0, 2) == 0 {
		t.Fatal("expected scrolled pixel at region row 0")
	}
	if fb.pixel(0, 3) != 0 {
		t.Fatal("expected origin row cleared after scroll")
	}
}

func TestRegionScrollPastHeightClears(t *testing.T) {
	fb := newFakeFramebuffer(4, 6)
	d := newFBRegion(fb, 2, 4)

	d.SetPixel(0, 0, white)
	if err := d.ScrollUp(10, color.RGBA{A: 255}); err != nil {
		t.Fatalf("scroll: %v", err)
	}
	for y := 0; y < 4; y++ {
		if fb.pixel(0, y+2) != 0 {
			t.Fatalf("expected region cleared, pixel set at row %d", y)
		}
	}
}

func TestRegionFillClamped(t *testing.T) {
	fb := newFakeFramebuffer(4, 6)
	d := newFBRegion(fb, 2, 4)

	if err := d.FillRectangle(-5, -5, 100, 100, white); err != nil {
		t.Fatalf("fill: %v", err)
	}
	// Entire band filled, nothing above it.
	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			inBand := y >= 2
			if inBand && fb.pixel(x, y) == 0 {
				t.Fatalf("expected fill at (%d,%d)", x, y)
			}
			if !inBand && fb.pixel(x, y) != 0 {
				t.Fatalf("fill escaped the band at (%d,%d)", x, y)
			}
		}
	}
}

func TestRegionClampsToFramebuffer(t *testing.T) {
	fb := newFakeFramebuffer(4, 6)
	d := newFBRegion(fb, 4, 10)
	if _, h := d.Size(); h != 2 {
		t.Fatalf("expected region height clamped to 2, got %d", h)
	}
}

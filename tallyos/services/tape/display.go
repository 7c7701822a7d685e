package tape

import (
	"image/color"

	"tally/hal"

	"tinygo.org/x/drivers"
)

// fbRegion exposes a horizontal band of the framebuffer as a display for
// tinyterm, so the tape can scroll without touching the keypad above it.
type fbRegion struct {
	fb   hal.Framebuffer
	yOff int
	h    int
}

func newFBRegion(fb hal.Framebuffer, yOff, h int) *fbRegion {
	if yOff < 0 {
		yOff = 0
	}
	if fb != nil && yOff+h > fb.Height() {
		h = fb.Height() - yOff
	}
	if h < 0 {
		h = 0
	}
	return &fbRegion{fb: fb, yOff: yOff, h: h}
}

func (d *fbRegion) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.h)
}

func (d *fbRegion) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= d.h {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := (iy+d.yOff)*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbRegion) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbRegion) ScrollUp(lines int16, bg color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	if lines <= 0 {
		return nil
	}

	buf := d.fb.Buffer()
	if buf == nil {
		return nil
	}

	w := d.fb.Width()
	if w <= 0 || d.h <= 0 {
		return nil
	}

	n := int(lines)
	if n >= d.h {
		return d.FillRectangle(0, 0, int16(w), int16(d.h), bg)
	}

	stride := d.fb.StrideBytes()

	// Shift the band content up by n lines (respect stride + buffer bounds).
	dstStart := d.yOff * stride
	srcStart := (d.yOff + n) * stride
	moved := (d.h - n) * stride
	if dstStart < 0 || srcStart < 0 || moved <= 0 {
		return nil
	}
	if srcStart+moved > len(buf) {
		moved = len(buf) - srcStart
	}
	if moved <= 0 {
		return d.FillRectangle(0, 0, int16(w), int16(d.h), bg)
	}
	copy(buf[dstStart:dstStart+moved], buf[srcStart:srcStart+moved])

	// Clear the newly exposed bottom area.
	return d.FillRectangle(0, int16(d.h-n), int16(w), int16(n), bg)
}

func (d *fbRegion) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return nil
	}

	w := d.fb.Width()

	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, d.h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, d.h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := (py + d.yOff) * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

func (d *fbRegion) SetScroll(line int16) {
	_ = line
}

func (d *fbRegion) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

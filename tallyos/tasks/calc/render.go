package calc

import (
	"image/color"

	"tally/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

var (
	readoutFont = &freemono.Bold12pt7b
	compactFont = &freemono.Regular9pt7b
	keypadFont  = &freemono.Regular9pt7b
)

var (
	colBG        = color.RGBA{R: 0x10, G: 0x12, B: 0x16, A: 0xFF}
	colReadoutBG = color.RGBA{R: 0x1C, G: 0x20, B: 0x28, A: 0xFF}
	colReadout   = color.RGBA{R: 0xEE, G: 0xF2, B: 0xF6, A: 0xFF}
	colKeyBG     = color.RGBA{R: 0x24, G: 0x28, B: 0x32, A: 0xFF}
	colKeyText   = color.RGBA{R: 0xD8, G: 0xDC, B: 0xE4, A: 0xFF}
	colAccentBG  = color.RGBA{R: 0xE0, G: 0x8A, B: 0x1E, A: 0xFF}
	colAccent    = color.RGBA{R: 0x10, G: 0x12, B: 0x16, A: 0xFF}
)

const (
	readoutHeight   = 56
	readoutPad      = 8
	readoutBaseline = 36

	keypadGap = 4

	// Baseline offset from a key cell's vertical center for the 9pt face.
	keyBaselineDrop = 5
)

// keypadLabels lays the keys out in rows. Adjacent cells with the same label
// render as one wide key.
var keypadLabels = [5][4]string{
	{"C", "s", "%", "/"},
	{"7", "8", "9", "*"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "+"},
	{"0", "0", ".", "="},
}

func (t *Task) render() {
	if !t.active || t.fb == nil || t.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := t.fb.Buffer()
	if buf == nil {
		return
	}
	w := t.fb.Width()
	if w <= 0 || t.tapeTop <= readoutHeight {
		return
	}

	d := &fbDisplayer{fb: t.fb, clipH: t.tapeTop}
	_ = d.FillRectangle(0, 0, int16(w), int16(t.tapeTop), colBG)

	t.renderReadout(d, w)
	t.renderKeypad(d, w)

	_ = t.fb.Present()
}

func (t *Task) renderReadout(d *fbDisplayer, w int) {
	_ = d.FillRectangle(0, 0, int16(w), readoutHeight, colReadoutBG)

	s := t.eng.Display()
	font := tinyfont.Fonter(readoutFont)
	_, lw := tinyfont.LineWidth(font, s)
	if int(lw) > w-2*readoutPad {
		// Long results drop to the compact face before clipping on the left.
		font = compactFont
		_, lw = tinyfont.LineWidth(font, s)
	}

	x := w - readoutPad - int(lw)
	if x < readoutPad {
		x = readoutPad
	}
	tinyfont.WriteLine(d, font, int16(x), readoutBaseline, s, colReadout)
}

func (t *Task) renderKeypad(d *fbDisplayer, w int) {
	rows := len(keypadLabels)
	cols := len(keypadLabels[0])

	top := readoutHeight
	areaH := t.tapeTop - top
	cellW := (w - keypadGap*(cols+1)) / cols
	cellH := (areaH - keypadGap*(rows+1)) / rows
	if cellW <= 0 || cellH <= 0 {
		return
	}

	pendingLabel := ""
	if op, ok := t.eng.Pending(); ok {
		pendingLabel = opLabel(op)
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			label := keypadLabels[r][c]
			if c > 0 && keypadLabels[r][c-1] == label {
				continue
			}
			span := 1
			for c+span < cols && keypadLabels[r][c+span] == label {
				span++
			}

			x := keypadGap + c*(cellW+keypadGap)
			y := top + keypadGap + r*(cellH+keypadGap)
			bw := span*cellW + (span-1)*keypadGap

			bg, fg := colKeyBG, colKeyText
			if label != "" && label == pendingLabel {
				bg, fg = colAccentBG, colAccent
			}
			_ = d.FillRectangle(int16(x), int16(y), int16(bw), int16(cellH), bg)

			_, lw := tinyfont.LineWidth(keypadFont, label)
			tx := x + (bw-int(lw))/2
			ty := y + cellH/2 + keyBaselineDrop
			tinyfont.WriteLine(d, keypadFont, int16(tx), int16(ty), label, fg)
		}
	}
}

// fbDisplayer adapts the framebuffer for tinyfont, clipped to the rows above
// the tape band.
type fbDisplayer struct {
	fb    hal.Framebuffer
	clipH int
}

func (d *fbDisplayer) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.clipH)
}

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
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
	if ix < 0 || ix >= w || iy < 0 || iy >= d.clipH {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplayer) Display() error { return nil }

func (d *fbDisplayer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return nil
	}

	w := d.fb.Width()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, d.clipH)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, d.clipH)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
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

package tape

import (
	"image/color"

	"tally/hal"
	"tally/tallyos/kernel"
	"tally/tallyos/proto"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

var tapeBG = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}

// Service renders a scrolling calculation history in a band at the bottom of
// the screen. It consumes MsgTermWrite lines and MsgTermClear.
type Service struct {
	disp hal.Display
	ep   kernel.Capability

	yOff   int
	height int

	fb hal.Framebuffer
	d  *fbRegion
	t  *tinyterm.Terminal
}

func New(disp hal.Display, ep kernel.Capability, yOff, height int) *Service {
	return &Service{disp: disp, ep: ep, yOff: yOff, height: height}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}

	if s.disp == nil {
		return
	}
	s.fb = s.disp.Framebuffer()
	if s.fb == nil {
		return
	}

	s.d = newFBRegion(s.fb, s.yOff, s.height)
	s.reset()

	dirty := false

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 16)
	go func() {
		last := ctx.NowTick()
		for {
			select {
			case <-done:
				return
			default:
			}
			last = ctx.WaitTick(last)
			select {
			case tickCh <- last:
			default:
			}
		}
	}()

	for {
		select {
		case <-tickCh:
			if dirty {
				s.t.Display()
				dirty = false
			}

		case msg, ok := <-ch:
			if !ok {
				return
			}
			switch proto.Kind(msg.Kind) {
			case proto.MsgTermWrite:
				_, _ = s.t.Write(msg.Payload())
				dirty = true
			case proto.MsgTermClear:
				s.reset()
				dirty = true
			}
		}
	}
}

func (s *Service) reset() {
	s.t = tinyterm.NewTerminal(s.d)
	s.t.Configure(&tinyterm.Config{
		Font:              &proggy.TinySZ8pt7b,
		FontHeight:        10,
		FontOffset:        6,
		UseSoftwareScroll: true,
	})
	_ = s.d.FillRectangle(0, 0, int16(s.fb.Width()), int16(s.d.h), tapeBG)
	_ = s.fb.Present()
}

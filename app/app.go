// Package app assembles the calculator: kernel, services, and the calc task.
package app

import (
	"tally/hal"
	"tally/internal/buildinfo"
	"tally/tallyos/kernel"
	"tally/tallyos/proto"
	"tally/tallyos/services/logger"
	"tally/tallyos/services/tape"
	"tally/tallyos/services/termkbd"
	"tally/tallyos/tasks/calc"
)

// Screen layout: readout and keypad above, scrolling tape below.
const (
	tapeTop    = 240
	tapeHeight = 80
)

// New initializes and starts the calculator on the given HAL.
func New(h hal.HAL) func() error {
	newSystem(h)
	return func() error { return nil }
}

// Run starts the calculator and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	_ = New(h)
	select {}
}

func newSystem(h hal.HAL) {
	installPanicHandler(h)
	if l := h.Logger(); l != nil {
		l.WriteLineString("tally " + buildinfo.Short())
	}
	bootTrace(h, "kernel")

	k := kernel.New()

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	tapeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	bootTrace(h, "services")
	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(tape.New(h.Display(), tapeEP.Restrict(kernel.RightRecv), tapeTop, tapeHeight))
	k.AddTask(termkbd.New(h.Input(), calcEP.Restrict(kernel.RightSend)))

	k.AddTask(calc.New(
		h.Display(),
		calcEP,
		logEP.Restrict(kernel.RightSend),
		tapeEP.Restrict(kernel.RightSend),
		tapeTop,
	))
	k.AddTask(&activateTask{calcCap: calcEP.Restrict(kernel.RightSend)})

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	bootTrace(h, "ready")
}

// activateTask switches the calc task on once at boot and exits.
type activateTask struct {
	calcCap kernel.Capability
}

func (t *activateTask) Run(ctx *kernel.Context) {
	for {
		res := ctx.SendToCapResult(t.calcCap, uint16(proto.MsgAppControl), proto.AppControlPayload(true), kernel.Capability{})
		if res != kernel.SendErrQueueFull {
			return
		}
		ctx.BlockOnTick()
	}
}

// Package calc is the calculator app task: it decodes terminal input into
// engine keys, renders the readout and keypad, and appends finished
// computations to the tape.
package calc

import (
	"errors"

	"tally/hal"
	logclient "tally/tallyos/client/logger"
	"tally/tallyos/engine"
	"tally/tallyos/kernel"
	"tally/tallyos/proto"
)

type Task struct {
	disp hal.Display
	ep   kernel.Capability

	logCap  kernel.Capability
	tapeCap kernel.Capability
	muxCap  kernel.Capability

	fb hal.Framebuffer

	eng    *engine.Engine
	active bool
	inbuf  []byte

	// tapeTop is the first framebuffer row owned by the tape service; the
	// task never draws at or below it.
	tapeTop int
}

const tapeSendRetryTicks = 32

func New(disp hal.Display, ep, logCap, tapeCap kernel.Capability, tapeTop int) *Task {
	return &Task{
		disp:    disp,
		ep:      ep,
		logCap:  logCap,
		tapeCap: tapeCap,
		eng:     engine.New(),
		tapeTop: tapeTop,
	}
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.ep)
	if !ok {
		return
	}
	if t.disp == nil {
		return
	}
	t.fb = t.disp.Framebuffer()
	if t.fb == nil {
		return
	}

	for msg := range ch {
		switch proto.Kind(msg.Kind) {
		case proto.MsgAppShutdown:
			t.unload()
			return

		case proto.MsgAppControl:
			if msg.Cap.Valid() {
				t.muxCap = msg.Cap
			}
			active, ok := proto.DecodeAppControlPayload(msg.Payload())
			if !ok {
				continue
			}
			t.setActive(active)

		case proto.MsgTermInput:
			if !t.active {
				continue
			}
			t.handleInput(ctx, msg.Payload())
			if t.active {
				t.render()
			}
		}
	}
}

func (t *Task) setActive(active bool) {
	if active == t.active {
		return
	}
	t.active = active
	if t.active {
		t.render()
	}
}

func (t *Task) unload() {
	t.active = false
	t.inbuf = nil
}

func (t *Task) handleInput(ctx *kernel.Context, b []byte) {
	t.inbuf = append(t.inbuf, b...)
	buf := t.inbuf

	for len(buf) > 0 {
		n, k, ok := nextKey(buf)
		if !ok {
			break
		}
		buf = buf[n:]
		t.handleKey(ctx, k)
		if !t.active {
			t.inbuf = t.inbuf[:0]
			return
		}
	}
	t.inbuf = append(t.inbuf[:0], buf...)
}

func (t *Task) handleKey(ctx *kernel.Context, k key) {
	switch k.kind {
	case keyEsc:
		t.requestExit(ctx)
	case keyEnter:
		t.press(ctx, engine.EqualsKey)
	case keyBackspace, keyDelete:
		t.press(ctx, engine.ClearKey)
	case keyRune:
		if k.r == 'q' || k.r == 'Q' {
			t.requestExit(ctx)
			return
		}
		if ek, ok := keyFromRune(k.r); ok {
			t.press(ctx, ek)
		}
	}
}

// keyFromRune maps a printable key to an engine key. Unmapped runes are
// ignored by the caller.
func keyFromRune(r rune) (engine.Key, bool) {
	switch {
	case r >= '0' && r <= '9':
		return engine.DigitKey(uint8(r - '0')), true
	}
	switch r {
	case '.':
		return engine.DecimalKey, true
	case '+':
		return engine.OperatorKey(engine.OpAdd), true
	case '-':
		return engine.OperatorKey(engine.OpSub), true
	case '*', 'x', 'X':
		return engine.OperatorKey(engine.OpMul), true
	case '/':
		return engine.OperatorKey(engine.OpDiv), true
	case '%':
		return engine.PercentKey, true
	case '=':
		return engine.EqualsKey, true
	case 's', 'S':
		return engine.SignKey, true
	case 'c', 'C':
		return engine.ClearKey, true
	default:
		return engine.Key{}, false
	}
}

// press feeds one key to the engine. A successful equals also appends the
// finished computation to the tape.
func (t *Task) press(ctx *kernel.Context, k engine.Key) {
	var line string
	if k.Kind == engine.KeyEquals {
		if op, ok := t.eng.Pending(); ok {
			a := t.eng.FirstOperand()
			b, has := t.eng.SecondOperand()
			if !has {
				b = a
			}
			line = a + " " + opLabel(op) + " " + b + " = "
		}
	}

	display, err := t.eng.Handle(k)
	if err != nil {
		logclient.Error(ctx, t.logCap, errCode(err), proto.MsgTermInput, err.Error())
		return
	}
	if line != "" {
		t.appendTape(ctx, line+display+"\n")
	}
}

// errCode maps an engine error onto the wire error taxonomy.
func errCode(err error) proto.ErrCode {
	switch {
	case errors.Is(err, engine.ErrNoPendingOp):
		return proto.ErrNoPendingOp
	case errors.Is(err, engine.ErrBadOperand):
		return proto.ErrBadOperand
	default:
		return proto.ErrUnknown
	}
}

// opLabel is the operator glyph used on the keypad and the tape. The tape
// font covers ASCII only, so multiply and divide keep their input symbols.
func opLabel(op engine.Op) string {
	switch op {
	case engine.OpAdd:
		return "+"
	case engine.OpSub:
		return "-"
	case engine.OpMul:
		return "*"
	case engine.OpDiv:
		return "/"
	default:
		return ""
	}
}

func (t *Task) appendTape(ctx *kernel.Context, line string) {
	if !t.tapeCap.Valid() {
		return
	}
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes {
		b = b[:kernel.MaxMessageBytes]
	}
	res := ctx.SendToCapRetry(t.tapeCap, uint16(proto.MsgTermWrite), b, kernel.Capability{}, tapeSendRetryTicks)
	if res != kernel.SendOK {
		logclient.Log(ctx, t.logCap, "calc: tape send: "+res.String())
	}
}

func (t *Task) requestExit(ctx *kernel.Context) {
	t.active = false
	if !t.muxCap.Valid() {
		return
	}
	for {
		res := ctx.SendToCapResult(t.muxCap, uint16(proto.MsgAppControl), proto.AppControlPayload(false), kernel.Capability{})
		switch res {
		case kernel.SendOK:
			return
		case kernel.SendErrQueueFull:
			ctx.BlockOnTick()
		default:
			return
		}
	}
}

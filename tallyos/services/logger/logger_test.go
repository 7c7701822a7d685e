package logger

import (
	"testing"
	"time"

	"tally/tallyos/kernel"
	"tally/tallyos/proto"
)

type taskFunc func(*kernel.Context)

func (f taskFunc) Run(ctx *kernel.Context) { f(ctx) }

type captureLogger struct {
	lines chan string
}

func (l *captureLogger) WriteLineString(s string) { l.lines <- s }
func (l *captureLogger) WriteLineBytes(b []byte)  { l.lines <- string(b) }

func recvWithTimeout[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for log line")
	}
	panic("unreachable")
}

func TestLogLineReachesSink(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	sink := &captureLogger{lines: make(chan string, 4)}

	k.AddTask(New(sink, ep.Restrict(kernel.RightRecv)))

	to := ep.Restrict(kernel.RightSend)
	k.AddTask(taskFunc(func(ctx *kernel.Context) {
		ctx.SendToCap(to, uint16(proto.MsgLogLine), proto.LogLinePayload([]byte("boot ok")), kernel.Capability{})
	}))

	if got := recvWithTimeout(t, sink.lines); got != "boot ok" {
		t.Fatalf("unexpected log line %q", got)
	}
}

func TestErrorMessageFormatted(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	sink := &captureLogger{lines: make(chan string, 4)}

	k.AddTask(New(sink, ep.Restrict(kernel.RightRecv)))

	to := ep.Restrict(kernel.RightSend)
	k.AddTask(taskFunc(func(ctx *kernel.Context) {
		payload := proto.ErrorPayload(proto.ErrNoPendingOp, proto.MsgTermInput, []byte("equals"))
		ctx.SendToCap(to, uint16(proto.MsgError), payload, kernel.Capability{})
	}))

	want := "error: no_pending_op ref=term_input: equals"
	if got := recvWithTimeout(t, sink.lines); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMalformedErrorPayload(t *testing.T) {
	if got := formatError([]byte{1, 2}); got != "error: malformed payload" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestOtherKindsIgnored(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	sink := &captureLogger{lines: make(chan string, 4)}

	k.AddTask(New(sink, ep.Restrict(kernel.RightRecv)))

	to := ep.Restrict(kernel.RightSend)
	k.AddTask(taskFunc(func(ctx *kernel.Context) {
		ctx.SendToCap(to, uint16(proto.MsgTermWrite), []byte("not a log"), kernel.Capability{})
		ctx.SendToCap(to, uint16(proto.MsgLogLine), proto.LogLinePayload([]byte("after")), kernel.Capability{})
	}))

	if got := recvWithTimeout(t, sink.lines); got != "after" {
		t.Fatalf("expected the term write to be dropped, got %q", got)
	}
}

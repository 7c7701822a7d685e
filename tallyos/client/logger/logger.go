// Package logger is the client side of the log service.
package logger

import (
	"tally/tallyos/kernel"
	"tally/tallyos/proto"
)

// Log sends a log line to the logger service.
//
// The call is best-effort: it may drop on queue full.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes {
		b = b[:kernel.MaxMessageBytes]
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), proto.LogLinePayload(b), kernel.Capability{})
}

// Error reports a recoverable fault to the logger service as a MsgError.
//
// ref names the request kind that faulted; detail is free-form text. The call
// is best-effort, like Log.
func Error(ctx *kernel.Context, logCap kernel.Capability, code proto.ErrCode, ref proto.Kind, detail string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	d := []byte(detail)
	if max := kernel.MaxMessageBytes - 4; len(d) > max {
		d = d[:max]
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgError), proto.ErrorPayload(code, ref, d), kernel.Capability{})
}

package logger

import (
	"tally/hal"
	"tally/tallyos/kernel"
	"tally/tallyos/proto"
)

// Service drains MsgLogLine and MsgError messages to the HAL logger.
type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	if s.log == nil {
		return
	}
	for msg := range ch {
		switch proto.Kind(msg.Kind) {
		case proto.MsgLogLine:
			s.log.WriteLineBytes(msg.Payload())
		case proto.MsgError:
			s.log.WriteLineString(formatError(msg.Payload()))
		}
	}
}

func formatError(payload []byte) string {
	code, ref, detail, ok := proto.DecodeErrorPayload(payload)
	if !ok {
		return "error: malformed payload"
	}
	line := "error: " + code.String() + " ref=" + ref.String()
	if len(detail) > 0 {
		line += ": " + string(detail)
	}
	return line
}

package blocklog

import "strings"

// EventContext buffers the events of one block until it commits.
type EventContext struct {
	block  uint64
	causes []string
	events []*Event
}

func NewEventContext(block uint64) *EventContext {
	return &EventContext{block: block}
}

func (ctx *EventContext) Block() uint64 {
	if ctx == nil {
		return 0
	}
	return ctx.block
}

func (ctx *EventContext) PushCause(cause string) {
	if ctx == nil {
		return
	}
	if len(cause) > 0 {
		ctx.causes = append(ctx.causes, cause)
	}
}

func (ctx *EventContext) PopCause() {
	if ctx == nil {
		return
	}
	if count := len(ctx.causes); count > 0 {
		ctx.causes = ctx.causes[:count-1]
	}
}

func (ctx *EventContext) Cause() string {
	if ctx == nil {
		return ""
	}
	return strings.Join(ctx.causes, ".")
}

func (ctx *EventContext) Emit(p Payload) {
	if ctx == nil {
		return
	}
	ctx.events = append(ctx.events, &Event{
		Block:   ctx.block,
		Seq:     uint32(len(ctx.events)),
		Cause:   ctx.Cause(),
		Payload: p,
	})
}

// Mark returns a position Truncate can roll back to.
func (ctx *EventContext) Mark() int {
	if ctx == nil {
		return 0
	}
	return len(ctx.events)
}

func (ctx *EventContext) Truncate(mark int) {
	if ctx == nil || mark < 0 || mark > len(ctx.events) {
		return
	}
	ctx.events = ctx.events[:mark]
}

func (ctx *EventContext) Events() []*Event {
	if ctx == nil {
		return nil
	}
	return ctx.events
}

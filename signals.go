package veil

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for processor events.
var (
	SignalProcessorCreated = capitan.NewSignal("veil.processor.created", "Processor instantiated")
	SignalWriteStart       = capitan.NewSignal("veil.write.start", "Write operation beginning")
	SignalWriteComplete    = capitan.NewSignal("veil.write.complete", "Write operation finished")
	SignalReadStart        = capitan.NewSignal("veil.read.start", "Read operation beginning")
	SignalReadComplete     = capitan.NewSignal("veil.read.complete", "Read operation finished")
	SignalConcealStart     = capitan.NewSignal("veil.conceal.start", "Conceal operation beginning")
	SignalConcealComplete  = capitan.NewSignal("veil.conceal.complete", "Conceal operation finished")
	SignalRevealStart      = capitan.NewSignal("veil.reveal.start", "Reveal operation beginning")
	SignalRevealComplete   = capitan.NewSignal("veil.reveal.complete", "Reveal operation finished")
)

// Keys for typed event data.
var (
	KeyContentType   = capitan.NewStringKey("content_type")
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeySize          = capitan.NewIntKey("size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
	KeyHiddenCount   = capitan.NewIntKey("hidden_count")
	KeySealedCount   = capitan.NewIntKey("sealed_count")
	KeySelectorCount = capitan.NewIntKey("selector_count")
)

func emitProcessorCreated(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

func emitWriteStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalWriteStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

func emitWriteComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, hidden, sealed int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyHiddenCount.Field(hidden),
		KeySealedCount.Field(sealed),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalWriteComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalWriteComplete, fields...)
	}
}

func emitReadStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalReadStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

func emitReadComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, hidden, sealed int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyHiddenCount.Field(hidden),
		KeySealedCount.Field(sealed),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalReadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalReadComplete, fields...)
	}
}

func emitConcealStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalConcealStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitConcealComplete reports the document size and how many selectors carry it.
func emitConcealComplete(ctx context.Context, contentType, typeName string, size, selectors int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeySelectorCount.Field(selectors),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalConcealComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalConcealComplete, fields...)
	}
}

func emitRevealStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalRevealStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

func emitRevealComplete(ctx context.Context, contentType, typeName string, size, selectors int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeySelectorCount.Field(selectors),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRevealComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRevealComplete, fields...)
	}
}

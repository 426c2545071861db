package xcontext

import "context"

// errSlot and respSlot are installed by the router before any handler runs,
// so middlewares and closers can exchange the handler outcome through an
// otherwise immutable context.
type errSlot struct{ err error }
type respSlot struct{ resp any }

func WithErrorSlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, errorKey{}, &errSlot{})
}

func SetError(ctx context.Context, err error) {
	if slot, ok := ctx.Value(errorKey{}).(*errSlot); ok {
		slot.err = err
	}
}

func Error(ctx context.Context) error {
	if slot, ok := ctx.Value(errorKey{}).(*errSlot); ok {
		return slot.err
	}

	return nil
}

func WithResponseSlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, responseKey{}, &respSlot{})
}

func SetResponse(ctx context.Context, resp any) {
	if slot, ok := ctx.Value(responseKey{}).(*respSlot); ok {
		slot.resp = resp
	}
}

func Response(ctx context.Context) any {
	if slot, ok := ctx.Value(responseKey{}).(*respSlot); ok {
		return slot.resp
	}

	return nil
}

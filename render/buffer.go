package render

import (
	"errors"
	"fmt"
)

// BytesPerPixel is one RGBA byte quadruple.
const BytesPerPixel = 4

// SharedBuffer is a display pixel buffer that is also a compute memory object.
// At any time it is owned either by the display side or, between acquire and
// release, by the compute queue.
type SharedBuffer struct {
	display Display
	handle  uint32
	mem     Mem

	width, height int

	acquired  bool
	destroyed bool
}

// NewSharedBuffer wraps the display buffer handle, which must hold
// width*height pixels. The SharedBuffer takes ownership of handle, also on failure.
func NewSharedBuffer(ctx ComputeContext, display Display, handle uint32, width, height int) (*SharedBuffer, error) {
	mem, err := ctx.WrapDisplayBuffer(handle)
	if err != nil {
		display.DeletePixelBuffer(handle)
		return nil, newError(BufferCreationFailed, "create compute buffer from display buffer", err)
	}

	return &SharedBuffer{
		display: display,
		handle:  handle,
		mem:     mem,
		width:   width,
		height:  height,
	}, nil
}

func (b *SharedBuffer) Handle() uint32 { return b.handle }
func (b *SharedBuffer) Mem() Mem       { return b.mem }
func (b *SharedBuffer) Width() int     { return b.width }
func (b *SharedBuffer) Height() int    { return b.height }
func (b *SharedBuffer) Size() int      { return b.width * b.height * BytesPerPixel }

// Acquired reports whether the compute queue currently owns the buffer.
func (b *SharedBuffer) Acquired() bool {
	return b.acquired
}

// Run hands the buffer to the compute queue, runs dispatch and hands it back.
// Each step waits for completion:
//
//  1. finish the display queue
//  2. acquire into the compute queue
//  3. dispatch
//  4. release to the display queue
//  5. finish the compute queue
//
// The display side may only read the buffer after Run returns.
func (b *SharedBuffer) Run(q Queue, dispatch func() error) error {
	if b.destroyed {
		return &Error{Kind: DispatchFailed, Op: "run", Err: errors.New("shared buffer destroyed")}
	}

	b.display.Finish()

	if err := q.AcquireDisplayObjects(b.mem); err != nil {
		return newError(DispatchFailed, "acquire display objects", err)
	}
	b.acquired = true

	dispatchErr := dispatch()

	releaseErr := q.ReleaseDisplayObjects(b.mem)
	finishErr := q.Finish()
	if releaseErr == nil {
		b.acquired = false
	}

	switch {
	case dispatchErr != nil:
		var e *Error
		if errors.As(dispatchErr, &e) {
			return dispatchErr
		}
		return newError(DispatchFailed, "enqueue kernel", dispatchErr)
	case releaseErr != nil:
		return newError(DispatchFailed, "release display objects", releaseErr)
	case finishErr != nil:
		return newError(DispatchFailed, "finish compute queue", finishErr)
	}
	return nil
}

// Read copies the pixels to dst on the display side.
func (b *SharedBuffer) Read(dst []byte) error {
	if b.acquired {
		return ErrAcquired
	}
	if len(dst) < b.Size() {
		return fmt.Errorf("read shared buffer: need %d bytes, have %d", b.Size(), len(dst))
	}
	return b.display.ReadPixelBuffer(b.handle, dst[:b.Size()])
}

// Destroy drains both queues, then releases the compute object and deletes the display buffer.
func (b *SharedBuffer) Destroy(q Queue) {
	if b.destroyed {
		return
	}
	b.display.Finish()
	if q != nil {
		_ = q.Finish()
	}
	b.mem.Release()
	b.display.DeletePixelBuffer(b.handle)
	b.destroyed = true
}

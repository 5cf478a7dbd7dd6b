package lib

import (
	"encoding/binary"
	"io"
	"sync"
)

// FrameBuffer assembles one outgoing wire frame — a small fixed-format
// header (version, message type, big-endian length) followed by a
// gob-encoded payload — without allocating per frame. It is pooled via
// sync.Pool and scoped to exactly what router/protocol.go's WriteFrame
// does: write a header byte, write a big-endian length field, append a
// payload and flush it all to the wire.
type FrameBuffer struct {
	buf      []byte
	original []byte
}

var framePool = &sync.Pool{
	New: func() interface{} {
		f := &FrameBuffer{buf: make([]byte, 0, 256)}
		f.original = f.buf
		return f
	},
}

// TakeFrameBuffer returns a FrameBuffer from the pool, empty and ready for
// one frame's worth of header+payload bytes.
func TakeFrameBuffer() *FrameBuffer {
	return framePool.Get().(*FrameBuffer)
}

// ReleaseFrameBuffer returns f to the pool. f must not be used afterward.
func ReleaseFrameBuffer(f *FrameBuffer) {
	f.buf = f.original[:0]
	framePool.Put(f)
}

// PutByte appends a single header byte (protocol version or message type).
func (f *FrameBuffer) PutByte(v byte) {
	f.buf = append(f.buf, v)
}

// PutUint16 appends v as the frame's big-endian length field.
func (f *FrameBuffer) PutUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	f.buf = append(f.buf, b[:]...)
}

// PutPayload appends the frame's gob-encoded body.
func (f *FrameBuffer) PutPayload(p []byte) {
	f.buf = append(f.buf, p...)
}

// Flush writes the assembled header+payload to w, retrying on short writes
// the way a single net.Conn.Write can legitimately return one.
func (f *FrameBuffer) Flush(w io.Writer) error {
	remaining := f.buf
	for len(remaining) > 0 {
		n, err := w.Write(remaining)
		if err != nil {
			return err
		}
		remaining = remaining[n:]
	}
	return nil
}

package lib

import (
	"bytes"
	"testing"
)

func TestFrameBufferAssemblesHeaderAndPayload(t *testing.T) {
	f := TakeFrameBuffer()
	defer ReleaseFrameBuffer(f)

	f.PutByte(1)
	f.PutByte(0x07)
	f.PutUint16(3)
	f.PutPayload([]byte("abc"))

	var out bytes.Buffer
	if err := f.Flush(&out); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	want := []byte{1, 0x07, 0x00, 0x03, 'a', 'b', 'c'}
	if !bytes.Equal(out.Bytes(), want) {
		t.Fatalf("got %v, want %v", out.Bytes(), want)
	}
}

func TestFrameBufferResetAfterRelease(t *testing.T) {
	f := TakeFrameBuffer()
	f.PutByte(1)
	f.PutPayload([]byte("some bytes"))
	ReleaseFrameBuffer(f)

	f2 := TakeFrameBuffer()
	defer ReleaseFrameBuffer(f2)
	if len(f2.buf) != 0 {
		t.Fatalf("expected pooled FrameBuffer to come back empty, got len %d", len(f2.buf))
	}
}

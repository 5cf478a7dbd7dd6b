package router

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/aregtech/areg-go/gen"
	"github.com/aregtech/areg-go/lib"
)

const protocolVersion byte = 1

// MessageType enumerates every frame type exchanged between a router.Client
// and the reference broker in router/broker. This framing exists purely so
// the shipped broker and client can talk to each other; gob is used
// directly for the payload rather than a schema'd third-party serializer,
// since the payload is just a handful of internal Go structs.
type MessageType byte

const (
	MsgRegisterStub MessageType = iota
	MsgUnregisterStub
	MsgRegisterProxy
	MsgUnregisterProxy
	MsgHello
	MsgHelloAck
)

func (m MessageType) String() string {
	switch m {
	case MsgRegisterStub:
		return "RegisterStub"
	case MsgUnregisterStub:
		return "UnregisterStub"
	case MsgRegisterProxy:
		return "RegisterProxy"
	case MsgUnregisterProxy:
		return "UnregisterProxy"
	case MsgHello:
		return "Hello"
	case MsgHelloAck:
		return "HelloAck"
	default:
		return "Unknown"
	}
}

// HelloPayload is sent by the client immediately after connecting, and
// echoed back (with the broker-assigned Cookie if the client didn't already
// have one) in a MsgHelloAck.
type HelloPayload struct {
	Cookie gen.Cookie
}

// StubPayload/ProxyPayload wrap the corresponding address for the four
// register/unregister message types.
type StubPayload struct {
	Stub gen.StubAddress
}

type ProxyPayload struct {
	Proxy gen.ProxyAddress
}

// WriteFrame serializes msgType and payload (gob-encoded) as
// [version][type][len uint16 BE][payload] and writes it to w.
func WriteFrame(w io.Writer, msgType MessageType, payload any) error {
	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(payload); err != nil {
		return err
	}
	if body.Len() > 0xFFFF {
		return fmt.Errorf("%w: frame payload too large (%d bytes)", gen.ErrBrokerBadFrame, body.Len())
	}

	buf := lib.TakeFrameBuffer()
	defer lib.ReleaseFrameBuffer(buf)
	buf.PutByte(protocolVersion)
	buf.PutByte(byte(msgType))
	buf.PutUint16(uint16(body.Len()))
	buf.PutPayload(body.Bytes())

	return buf.Flush(w)
}

// ReadFrameRaw reads one frame from r and returns its type and undecoded
// payload, letting the caller pick the right Go type to gob-decode into
// once it knows msgType (register/unregister stub vs proxy vs hello).
func ReadFrameRaw(r io.Reader) (MessageType, []byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}
	if header[0] != protocolVersion {
		return 0, nil, gen.ErrBrokerBadFrame
	}
	msgType := MessageType(header[1])
	length := binary.BigEndian.Uint16(header[2:4])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return msgType, payload, nil
}

// DecodePayload gob-decodes a frame body produced by ReadFrameRaw into out.
func DecodePayload(payload []byte, out any) error {
	if out == nil {
		return nil
	}
	return gob.NewDecoder(bytes.NewReader(payload)).Decode(out)
}

// ReadFrame reads one frame from r and gob-decodes its payload into out. Use
// this only when the expected payload type is already known (e.g. the
// handshake's HelloPayload); for dispatch on msgType use ReadFrameRaw.
func ReadFrame(r io.Reader, out any) (MessageType, error) {
	msgType, payload, err := ReadFrameRaw(r)
	if err != nil {
		return 0, err
	}
	if err := DecodePayload(payload, out); err != nil {
		return 0, err
	}
	return msgType, nil
}

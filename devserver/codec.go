//go:build !wasm
// +build !wasm

package devserver

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Encoder handles encoding of control-frame values onto a stream. It
// is only used for small control messages such as HELLO; trace
// frames go through EncodeTraceEvent directly, since each one is a
// single self-contained websocket message.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates a new encoder
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteUvarint writes an unsigned varint
func (e *Encoder) WriteUvarint(v uint64) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, v)
	_, err := e.w.Write(buf[:n])
	return err
}

// WriteString writes a length-prefixed string
func (e *Encoder) WriteString(s string) error {
	if err := e.WriteUvarint(uint64(len(s))); err != nil {
		return err
	}
	_, err := e.w.Write([]byte(s))
	return err
}

// WriteBytes writes raw bytes
func (e *Encoder) WriteBytes(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

// Decoder handles decoding of control-frame values from a stream.
type Decoder struct {
	r   io.Reader
	buf []byte
}

// NewDecoder creates a new decoder
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, 1024),
	}
}

// ReadUvarint reads an unsigned varint
func (d *Decoder) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(d)
}

// ReadByte implements io.ByteReader
func (d *Decoder) ReadByte() (byte, error) {
	var b [1]byte
	_, err := d.r.Read(b[:])
	return b[0], err
}

// ReadString reads a length-prefixed string
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}

	if length > uint64(len(d.buf)) {
		d.buf = make([]byte, length)
	}

	n, err := io.ReadFull(d.r, d.buf[:length])
	if err != nil {
		return "", err
	}

	return string(d.buf[:n]), nil
}

// EncodeTraceEvent encodes ev as a single FrameTrace wire message: the
// frame byte, then Seq as a uvarint, Type as a single byte,
// Fiber/Other/Value as uvarints, then the scenario name as a
// length-prefixed string.
func EncodeTraceEvent(ev TraceEvent) []byte {
	var buf []byte
	buf = append(buf, byte(FrameTrace))
	buf = appendUvarint(buf, ev.Seq)
	buf = append(buf, byte(ev.Type))
	buf = appendUvarint(buf, ev.Fiber)
	buf = appendUvarint(buf, ev.Other)
	buf = appendUvarint(buf, ev.Value)
	buf = appendUvarint(buf, uint64(len(ev.Scenario)))
	buf = append(buf, ev.Scenario...)
	return buf
}

// DecodeTraceEvent decodes a message produced by EncodeTraceEvent.
func DecodeTraceEvent(data []byte) (*TraceEvent, error) {
	if len(data) < 1 || data[0] != byte(FrameTrace) {
		return nil, errors.New("devserver: not a trace frame")
	}
	r := data[1:]

	ev := &TraceEvent{}
	var n int

	ev.Seq, n = binary.Uvarint(r)
	if n <= 0 {
		return nil, errors.New("devserver: failed to decode seq")
	}
	r = r[n:]

	if len(r) < 1 {
		return nil, errors.New("devserver: truncated event type")
	}
	ev.Type = EventType(r[0])
	r = r[1:]

	ev.Fiber, n = binary.Uvarint(r)
	if n <= 0 {
		return nil, errors.New("devserver: failed to decode fiber id")
	}
	r = r[n:]

	ev.Other, n = binary.Uvarint(r)
	if n <= 0 {
		return nil, errors.New("devserver: failed to decode other id")
	}
	r = r[n:]

	ev.Value, n = binary.Uvarint(r)
	if n <= 0 {
		return nil, errors.New("devserver: failed to decode value")
	}
	r = r[n:]

	slen, n := binary.Uvarint(r)
	if n <= 0 {
		return nil, errors.New("devserver: failed to decode scenario length")
	}
	r = r[n:]
	if uint64(len(r)) < slen {
		return nil, errors.New("devserver: truncated scenario name")
	}
	ev.Scenario = string(r[:slen])

	return ev, nil
}

// DecodeRunRequest decodes a client's "run this scenario" control
// message: a FrameControl byte followed by the scenario name as a
// length-prefixed string, the same shape Session.sendHello writes its
// HELLO message in.
func DecodeRunRequest(data []byte) (string, error) {
	dec := NewDecoder(bytes.NewReader(data))

	frame, err := dec.ReadByte()
	if err != nil {
		return "", fmt.Errorf("devserver: read control frame byte: %w", err)
	}
	if MessageType(frame) != FrameControl {
		return "", errors.New("devserver: not a control frame")
	}

	name, err := dec.ReadString()
	if err != nil {
		return "", fmt.Errorf("devserver: read scenario name: %w", err)
	}
	if name == "" {
		return "", errors.New("devserver: empty scenario name")
	}
	return name, nil
}

// appendUvarint appends v to buf in the same uvarint encoding the
// Encoder/Decoder pair above uses.
func appendUvarint(buf []byte, v uint64) []byte {
	tmp := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(tmp, v)
	return append(buf, tmp[:n]...)
}

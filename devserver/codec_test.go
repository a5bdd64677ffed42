package devserver

import (
	"bytes"
	"testing"
)

func TestTraceEventRoundTrip(t *testing.T) {
	want := TraceEvent{
		Seq:      7,
		Scenario: "sieve",
		Type:     EventSwitch,
		Fiber:    0xdead,
		Other:    0xbeef,
		Value:    42,
	}

	data := EncodeTraceEvent(want)
	got, err := DecodeTraceEvent(data)
	if err != nil {
		t.Fatalf("DecodeTraceEvent: %v", err)
	}
	if *got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", *got, want)
	}
}

func TestDecodeTraceEventRejectsWrongFrame(t *testing.T) {
	if _, err := DecodeTraceEvent([]byte{byte(FrameControl)}); err == nil {
		t.Fatal("expected an error decoding a non-trace frame")
	}
}

func TestDecodeTraceEventRejectsTruncated(t *testing.T) {
	full := EncodeTraceEvent(TraceEvent{Seq: 1, Type: EventAlloc, Scenario: "hello"})
	if _, err := DecodeTraceEvent(full[:len(full)-2]); err == nil {
		t.Fatal("expected an error decoding a truncated frame")
	}
}

func TestDecodeRunRequestMatchesEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.WriteBytes([]byte{byte(FrameControl)})
	enc.WriteString("sieve")

	name, err := DecodeRunRequest(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeRunRequest: %v", err)
	}
	if name != "sieve" {
		t.Fatalf("name = %q, want %q", name, "sieve")
	}
}

func TestDecodeRunRequestRejectsNonControlFrame(t *testing.T) {
	if _, err := DecodeRunRequest([]byte{byte(FrameTrace)}); err == nil {
		t.Fatal("expected an error decoding a non-control frame")
	}
}

func TestDecodeRunRequestRejectsEmptyName(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.WriteBytes([]byte{byte(FrameControl)})
	enc.WriteString("")

	if _, err := DecodeRunRequest(buf.Bytes()); err == nil {
		t.Fatal("expected an error decoding an empty scenario name")
	}
}

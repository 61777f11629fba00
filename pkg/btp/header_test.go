package btp

import (
	"bytes"
	"errors"
	"testing"
)

func wantParseErrorKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if parseErr.Kind != kind {
		t.Fatalf("error kind = %v, want %v", parseErr.Kind, kind)
	}
}

func TestHeaderEncodeHeartbeat(t *testing.T) {
	t.Parallel()
	h := Header{SequenceID: 0, BodyEncoding: EncodingHeartbeat, BodyLength: 0}
	want := []byte{'B', 'T', 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 'H', 'B', 0x00, 0x00}
	got := h.Encode()
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode() = % x, want % x", got, want)
	}
}

func TestHeaderDecodeHeartbeat(t *testing.T) {
	t.Parallel()
	data := []byte{'B', 'T', 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 'H', 'B', 0x00, 0x00}
	h, err := DecodeHeader(data)
	if err != nil {
		t.Fatalf("DecodeHeader() error = %v", err)
	}
	want := Header{SequenceID: 0, BodyEncoding: EncodingHeartbeat, BodyLength: 0}
	if h != want {
		t.Fatalf("DecodeHeader() = %+v, want %+v", h, want)
	}
}

func TestHeaderDecodeRejectsBadProtocolID(t *testing.T) {
	t.Parallel()
	data := []byte{'X', 'X', 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 'H', 'B', 0x00, 0x00}
	_, err := DecodeHeader(data)
	wantParseErrorKind(t, err, BadFrame)
}

func TestHeaderDecodeRejectsBadVersion(t *testing.T) {
	t.Parallel()
	data := []byte{'B', 'T', 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 'H', 'B', 0x00, 0x00}
	_, err := DecodeHeader(data)
	wantParseErrorKind(t, err, BadFrame)
}

func TestHeaderDecodeRejectsShortBuffer(t *testing.T) {
	t.Parallel()
	_, err := DecodeHeader([]byte{'B', 'T', 0x02, 0x00})
	wantParseErrorKind(t, err, ShortBuffer)
}

package btp

import (
	"bytes"
	"testing"
)

// TestDisconnectSeedScenario encodes the literal
// Disconnect(SequenceIDFault, expected=5, actual=7) example from spec.md
// §8 scenario 4 and checks it against the literal byte sequence given
// there.
func TestDisconnectSeedScenario(t *testing.T) {
	t.Parallel()
	expected, actual := uint32(5), uint32(7)
	d := &Disconnect{Reason: DisconnectSequenceIDFault, ExpectedSeq: &expected, ActualSeq: &actual}
	want := []byte{0x01, 0x05, 0x00, 0x00, 0x00, 0x07, 0x00, 0x00, 0x00}
	got := d.Encode()
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode() = % x, want % x", got, want)
	}
}

func TestDisconnectAbsentSequencesRoundTripToNil(t *testing.T) {
	t.Parallel()
	d := &Disconnect{Reason: DisconnectFailedToLogin}
	encoded := d.Encode()
	decoded, err := DecodeDisconnect(encoded)
	if err != nil {
		t.Fatalf("DecodeDisconnect() error = %v", err)
	}
	if decoded.ExpectedSeq != nil || decoded.ActualSeq != nil {
		t.Fatalf("ExpectedSeq/ActualSeq = %v/%v, want nil/nil for wire sentinel 0", decoded.ExpectedSeq, decoded.ActualSeq)
	}
	if decoded.Reason != DisconnectFailedToLogin {
		t.Fatalf("Reason = %v, want %v", decoded.Reason, DisconnectFailedToLogin)
	}
}

func TestDisconnectRoundTrip(t *testing.T) {
	t.Parallel()
	expected, actual := uint32(5), uint32(7)
	cases := []*Disconnect{
		{Reason: DisconnectSequenceIDFault},
		{Reason: DisconnectHeartbeatFault, ExpectedSeq: &expected},
		{Reason: DisconnectMessagingRateExceeded, ActualSeq: &actual},
		{Reason: DisconnectParseFailure, ExpectedSeq: &expected, ActualSeq: &actual},
	}
	for _, d := range cases {
		encoded := d.Encode()
		decoded, err := DecodeDisconnect(encoded)
		if err != nil {
			t.Fatalf("DecodeDisconnect(%+v) error = %v", d, err)
		}
		if !bytes.Equal(decoded.Encode(), encoded) {
			t.Fatalf("decode(encode(%+v)) re-encodes to % x, want % x", d, decoded.Encode(), encoded)
		}
	}
}

func TestDisconnectUnknownReason(t *testing.T) {
	t.Parallel()
	data := []byte{0x09, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err := DecodeDisconnect(data)
	wantParseErrorKind(t, err, UnknownEnum)
}

func TestDisconnectShortBuffer(t *testing.T) {
	t.Parallel()
	_, err := DecodeDisconnect([]byte{0x01, 0, 0})
	wantParseErrorKind(t, err, ShortBuffer)
}

package btp

import (
	"bytes"
	"testing"
)

func TestLoginRequestSeedScenario(t *testing.T) {
	t.Parallel()
	req, err := NewLoginRequest(1, make([]byte, 32), 30)
	if err != nil {
		t.Fatalf("NewLoginRequest() error = %v", err)
	}
	got := req.Encode()
	want := append([]byte{'L', 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, make([]byte, 32)...)
	want = append(want, 0x1E)
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode() = % x, want % x", got, want)
	}
	if len(got) != 42 {
		t.Fatalf("len(Encode()) = %d, want 42", len(got))
	}
}

func TestNewLoginRequestRejectsWrongTokenLength(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, 16, 31, 33, 64} {
		n := n
		t.Run(string(rune('0'+n%10)), func(t *testing.T) {
			t.Parallel()
			_, err := NewLoginRequest(1, make([]byte, n), 30)
			if err == nil {
				t.Fatalf("NewLoginRequest() with %d-byte token: want error, got nil", n)
			}
		})
	}
}

func TestLoginRoundTrip(t *testing.T) {
	t.Parallel()
	token := make([]byte, 32)
	for i := range token {
		token[i] = byte(i)
	}
	cases := []Body{
		mustLoginRequest(t, 42, token, 15),
		&LogoutRequest{PersistOrders: true},
		&LogoutRequest{PersistOrders: false},
		LoginAck{},
		&LoginReject{Reason: LoginRejectUnauthorized},
	}
	for _, body := range cases {
		encoded := body.Encode()
		decoded, err := DecodeLoginBody(encoded)
		if err != nil {
			t.Fatalf("DecodeLoginBody(%#v) error = %v", body, err)
		}
		if loginAck, ok := body.(LoginAck); ok {
			if decoded != loginAck {
				t.Fatalf("decode(encode(%#v)) = %#v", body, decoded)
			}
			continue
		}
		if !bytes.Equal(decoded.Encode(), encoded) {
			t.Fatalf("decode(encode(%#v)) re-encodes to % x, want % x", body, decoded.Encode(), encoded)
		}
	}
}

func TestLoginAckDecodeWrongTag(t *testing.T) {
	t.Parallel()
	_, err := decodeLoginAck([]byte{'R'})
	wantParseErrorKind(t, err, WrongTag)
}

func TestLoginRejectUnknownReason(t *testing.T) {
	t.Parallel()
	_, err := decodeLoginReject([]byte{'R', 0x09})
	wantParseErrorKind(t, err, UnknownEnum)
}

func TestLogoutRequestUnknownPersistOrders(t *testing.T) {
	t.Parallel()
	_, err := decodeLogoutRequest([]byte{'K', 'Q'})
	wantParseErrorKind(t, err, UnknownEnum)
}

func mustLoginRequest(t *testing.T, connID uint64, token []byte, hb uint8) *LoginRequest {
	t.Helper()
	req, err := NewLoginRequest(connID, token, hb)
	if err != nil {
		t.Fatalf("NewLoginRequest() error = %v", err)
	}
	return req
}

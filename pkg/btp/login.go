package btp

import (
	"encoding/binary"
	"fmt"
)

// AuthTokenLen is the fixed width of the raw auth token carried in a
// LoginRequest. The HMAC signer (internal/auth) uses the same token's
// textual/hex form as its key, not these raw bytes — see spec.md §9 "HMAC
// key encoding".
const AuthTokenLen = 32

// authTokenLengthError is returned by NewLoginRequest when the supplied token
// is not exactly AuthTokenLen bytes.
type authTokenLengthError struct{ got int }

func (e *authTokenLengthError) Error() string {
	return fmt.Sprintf("btp: auth_token must be exactly %d bytes, got %d", AuthTokenLen, e.got)
}

// LoginRequest opens a session. Sub-type byte 'L'.
type LoginRequest struct {
	ConnectionID      uint64
	AuthToken         [AuthTokenLen]byte
	HeartbeatInterval uint8
}

// NewLoginRequest validates authToken's length before constructing the
// request; the wire layout fixes it at AuthTokenLen bytes, so a mismatched
// length is refused here rather than silently truncated or padded.
func NewLoginRequest(connectionID uint64, authToken []byte, heartbeatInterval uint8) (*LoginRequest, error) {
	if len(authToken) != AuthTokenLen {
		return nil, &authTokenLengthError{got: len(authToken)}
	}
	req := &LoginRequest{ConnectionID: connectionID, HeartbeatInterval: heartbeatInterval}
	copy(req.AuthToken[:], authToken)
	return req, nil
}

func (r *LoginRequest) Encoding() BodyEncoding { return EncodingLogin }

func (r *LoginRequest) Encode() []byte {
	buf := make([]byte, 1+8+AuthTokenLen+1)
	buf[0] = 'L'
	binary.LittleEndian.PutUint64(buf[1:9], r.ConnectionID)
	copy(buf[9:9+AuthTokenLen], r.AuthToken[:])
	buf[9+AuthTokenLen] = r.HeartbeatInterval
	return buf
}

func decodeLoginRequest(data []byte) (*LoginRequest, error) {
	const n = 1 + 8 + AuthTokenLen + 1
	if len(data) < n {
		return nil, shortBufferErr("LoginRequest")
	}
	if data[0] != 'L' {
		return nil, wrongTagErr("LoginRequest")
	}
	req := &LoginRequest{
		ConnectionID:      binary.LittleEndian.Uint64(data[1:9]),
		HeartbeatInterval: data[9+AuthTokenLen],
	}
	copy(req.AuthToken[:], data[9:9+AuthTokenLen])
	return req, nil
}

// LogoutRequest asks the exchange to end the session. Sub-type byte 'K'.
type LogoutRequest struct {
	// PersistOrders is wire-encoded as 'Y' or 'N'.
	PersistOrders bool
}

func (r *LogoutRequest) Encoding() BodyEncoding { return EncodingLogin }

func (r *LogoutRequest) Encode() []byte {
	b := byte('N')
	if r.PersistOrders {
		b = 'Y'
	}
	return []byte{'K', b}
}

func decodeLogoutRequest(data []byte) (*LogoutRequest, error) {
	if len(data) < 2 {
		return nil, shortBufferErr("LogoutRequest")
	}
	if data[0] != 'K' {
		return nil, wrongTagErr("LogoutRequest")
	}
	switch data[1] {
	case 'Y':
		return &LogoutRequest{PersistOrders: true}, nil
	case 'N':
		return &LogoutRequest{PersistOrders: false}, nil
	default:
		return nil, unknownEnumErr("LogoutRequest.persist_orders")
	}
}

// LoginAck confirms a successful login. Sub-type byte 'A'.
type LoginAck struct{}

func (LoginAck) Encoding() BodyEncoding { return EncodingLogin }
func (LoginAck) Encode() []byte         { return []byte{'A'} }

func decodeLoginAck(data []byte) (LoginAck, error) {
	if len(data) < 1 {
		return LoginAck{}, shortBufferErr("LoginAck")
	}
	if data[0] != 'A' {
		return LoginAck{}, wrongTagErr("LoginAck")
	}
	return LoginAck{}, nil
}

// LoginReject rejects a login attempt. Sub-type byte 'R'.
type LoginReject struct {
	Reason LoginRejectReason
}

func (r *LoginReject) Encoding() BodyEncoding { return EncodingLogin }

func (r *LoginReject) Encode() []byte {
	return []byte{'R', byte(r.Reason)}
}

func decodeLoginReject(data []byte) (*LoginReject, error) {
	if len(data) < 2 {
		return nil, shortBufferErr("LoginReject")
	}
	if data[0] != 'R' {
		return nil, wrongTagErr("LoginReject")
	}
	reason := LoginRejectReason(data[1])
	if !reason.valid() {
		return nil, unknownEnumErr("LoginReject.reason")
	}
	return &LoginReject{Reason: reason}, nil
}

// DecodeLoginBody dispatches on the sub-type byte to the LG-family variant
// it names: LoginRequest ('L'), LogoutRequest ('K'), LoginAck ('A'), or
// LoginReject ('R').
func DecodeLoginBody(data []byte) (Body, error) {
	if len(data) < 1 {
		return nil, shortBufferErr("login body")
	}
	switch data[0] {
	case 'L':
		return decodeLoginRequest(data)
	case 'K':
		return decodeLogoutRequest(data)
	case 'A':
		return decodeLoginAck(data)
	case 'R':
		return decodeLoginReject(data)
	default:
		return nil, wrongTagErr(fmt.Sprintf("login body type %q", data[0]))
	}
}

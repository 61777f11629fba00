package session

import (
	"fmt"

	"github.com/bitnomial/btnl-client/pkg/btp"
)

// ErrorKind classifies a SessionError. All four are terminal: the session
// transitions to Closed and the caller reconnects if desired (spec.md §7).
type ErrorKind int

const (
	// LoginRejected means the exchange refused the login handshake.
	LoginRejected ErrorKind = iota
	// Protocol means a parse fault or an out-of-sequence message type
	// terminated the session.
	Protocol
	// Transport means the underlying connection's read or write failed.
	Transport
	// PeerTimeout means no frame of any kind arrived within the inbound
	// heartbeat watchdog window (spec.md §5, optional extension).
	PeerTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case LoginRejected:
		return "login_rejected"
	case Protocol:
		return "protocol"
	case Transport:
		return "transport"
	case PeerTimeout:
		return "peer_timeout"
	default:
		return "unknown"
	}
}

// SessionError is terminal: it always accompanies a transition to Closed.
type SessionError struct {
	Kind   ErrorKind
	Reason btp.LoginRejectReason // set only when Kind == LoginRejected
	Err    error                 // wrapped cause, if any
}

func (e *SessionError) Error() string {
	switch e.Kind {
	case LoginRejected:
		return fmt.Sprintf("session: login rejected: reason %d", e.Reason)
	case Protocol:
		return fmt.Sprintf("session: protocol error: %v", e.Err)
	case Transport:
		return fmt.Sprintf("session: transport error: %v", e.Err)
	case PeerTimeout:
		return "session: peer timeout: no frame received within the watchdog window"
	default:
		return fmt.Sprintf("session: %s", e.Kind)
	}
}

func (e *SessionError) Unwrap() error { return e.Err }

func loginRejectedErr(reason btp.LoginRejectReason) error {
	return &SessionError{Kind: LoginRejected, Reason: reason}
}

func protocolErr(err error) error { return &SessionError{Kind: Protocol, Err: err} }
func transportErr(err error) error { return &SessionError{Kind: Transport, Err: err} }
func peerTimeoutErr() error        { return &SessionError{Kind: PeerTimeout} }

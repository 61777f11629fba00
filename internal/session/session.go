// Package session implements the BTP duplex session engine: the login
// handshake, outbound sequence assignment, heartbeat liveness, inbound
// dispatch, and the {Idle, AwaitingAck, Open, Stopping, Closed} state
// machine (spec.md §4.3, §5). It is built on pkg/btp, which owns only the
// wire codec and framing and holds no session state.
//
// Concurrency shape: a single writer goroutine owns the connection's write
// half and drains a channel fed by both Send (the application producer) and
// the heartbeat ticker — this is the "confinement to a single writer task
// with a submission queue" option spec.md §5/§9 calls out as yielding the
// clearest invariants, grounded on internal/engine.Engine's pattern of one
// owning goroutine per mutable resource plus channel handoff.
package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitnomial/btnl-client/pkg/btp"
)

// State is a position in the session state machine.
type State int

const (
	StateIdle State = iota
	StateAwaitingAck
	StateOpen
	StateStopping
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAck:
		return "awaiting_ack"
	case StateOpen:
		return "open"
	case StateStopping:
		return "stopping"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Config is the ambient (non-wire) configuration a Session needs to log in.
type Config struct {
	ConnectionID      uint64
	AuthToken         [btp.AuthTokenLen]byte
	HeartbeatInterval uint8 // seconds; spec.md default is 30
}

// ParseAuthToken decodes a 64-character hex string into the 32 raw bytes
// the wire LoginRequest carries.
func ParseAuthToken(hexToken string) ([btp.AuthTokenLen]byte, error) {
	var out [btp.AuthTokenLen]byte
	raw, err := hex.DecodeString(hexToken)
	if err != nil {
		return out, fmt.Errorf("auth token is not valid hex: %w", err)
	}
	if len(raw) != btp.AuthTokenLen {
		return out, fmt.Errorf("auth token must decode to %d bytes, got %d", btp.AuthTokenLen, len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// Handler receives every non-heartbeat, non-login-handshake inbound body in
// arrival order, including a terminal Disconnect (a normal termination, not
// an error — spec.md §7).
type Handler func(body btp.Body)

type writeRequest struct {
	body   btp.Body
	result chan error
}

// Session drives one BTP duplex connection.
type Session struct {
	conn   io.ReadWriteCloser
	cfg    Config
	logger *slog.Logger

	stateMu sync.Mutex
	state   State

	nextSeq atomic.Uint32

	lastSendNanos atomic.Int64
	lastRecvNanos atomic.Int64

	writeCh  chan writeRequest
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	closeErrMu sync.Mutex
	closeErr   error
}

// New constructs a Session over conn. Login must be called before Run.
func New(conn io.ReadWriteCloser, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = 30
	}
	s := &Session{
		conn:    conn,
		cfg:     cfg,
		logger:  logger.With("component", "session"),
		state:   StateIdle,
		writeCh: make(chan writeRequest),
		stopCh:  make(chan struct{}),
	}
	s.nextSeq.Store(1)
	return s
}

// State returns the session's current state.
func (s *Session) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
}

// Login performs the BTP login handshake synchronously: build and write a
// LoginRequest at sequence 1, then block for the exchange's reply. Run must
// not be called until Login returns nil.
func (s *Session) Login(ctx context.Context) error {
	s.setState(StateAwaitingAck)

	req := &btp.LoginRequest{
		ConnectionID:      s.cfg.ConnectionID,
		AuthToken:         s.cfg.AuthToken,
		HeartbeatInterval: s.cfg.HeartbeatInterval,
	}

	if err := btp.WriteFrame(s.conn, 1, req); err != nil {
		s.setState(StateClosed)
		return transportErr(err)
	}
	s.nextSeq.Store(2)
	s.markSent()
	framesSent.WithLabelValues(btp.EncodingLogin.String()).Inc()

	type readResult struct {
		msg btp.Message
		err error
	}
	resultCh := make(chan readResult, 1)
	go func() {
		msg, err := btp.ReadFrame(s.conn)
		resultCh <- readResult{msg, err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		s.conn.Close()
		s.setState(StateClosed)
		return ctx.Err()
	case res = <-resultCh:
	}

	if res.err != nil {
		s.setState(StateClosed)
		return s.classifyReadErr(res.err)
	}
	if res.msg.Header.BodyEncoding != btp.EncodingLogin {
		s.setState(StateClosed)
		return protocolErr(fmt.Errorf("unexpected body_encoding %q during login", res.msg.Header.BodyEncoding))
	}
	framesReceived.WithLabelValues(btp.EncodingLogin.String()).Inc()
	s.markRecv()

	switch body := res.msg.Body.(type) {
	case btp.LoginAck:
		s.setState(StateOpen)
		return nil
	case *btp.LoginReject:
		s.setState(StateClosed)
		return loginRejectedErr(body.Reason)
	default:
		s.setState(StateClosed)
		return protocolErr(fmt.Errorf("unexpected login body %T during login", body))
	}
}

// Send assigns the next sequence id (or 0 for a Heartbeat, which never
// advances the counter) and writes body, routed through the single writer
// goroutine so sequence assignment and the socket write stay atomic with
// respect to every other producer (spec.md §5).
func (s *Session) Send(body btp.Body) error {
	if body.Encoding() != btp.EncodingHeartbeat && s.State() != StateOpen {
		return fmt.Errorf("session: send not permitted in state %s", s.State())
	}
	req := writeRequest{body: body, result: make(chan error, 1)}
	select {
	case s.writeCh <- req:
	case <-s.stopCh:
		return fmt.Errorf("session stopped")
	}
	return <-req.result
}

// Run starts the writer goroutine, the heartbeat ticker, and the inbound
// reader, then blocks until the session closes (Disconnect, a terminal
// error, ctx cancellation, or Stop). handler receives every non-heartbeat
// inbound body in arrival order.
func (s *Session) Run(ctx context.Context, handler Handler) error {
	if s.State() != StateOpen {
		return fmt.Errorf("session: Run called before a successful Login")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.writeLoop()
	}()
	go func() {
		defer s.wg.Done()
		s.heartbeatLoop(runCtx)
	}()

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	err := s.readLoop(handler)

	cancel()
	s.wg.Wait()

	return err
}

// Stop closes the writer half and transitions to Closed. Any in-progress
// read returns an I/O error that the reader loop treats as a graceful
// shutdown rather than a Transport error.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.setState(StateStopping)
		close(s.stopCh)
		s.conn.Close()
		s.setState(StateClosed)
	})
}

func (s *Session) stopped() bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return false
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case req := <-s.writeCh:
			seq := s.assignSeq(req.body)
			err := btp.WriteFrame(s.conn, seq, req.body)
			if err == nil {
				s.markSent()
				framesSent.WithLabelValues(req.body.Encoding().String()).Inc()
				if req.body.Encoding() == btp.EncodingHeartbeat {
					heartbeatsSent.Inc()
				}
			}
			req.result <- err
			if err != nil {
				s.terminate(transportErr(err))
				return
			}
		case <-s.stopCh:
			return
		}
	}
}

// assignSeq returns 0 for a Heartbeat without advancing the counter;
// otherwise it returns and atomically advances the next sequence id
// (spec.md §3 invariant 1, §4.3).
func (s *Session) assignSeq(body btp.Body) uint32 {
	if body.Encoding() == btp.EncodingHeartbeat {
		return 0
	}
	return s.nextSeq.Add(1) - 1
}

func (s *Session) heartbeatLoop(ctx context.Context) {
	interval := time.Duration(s.cfg.HeartbeatInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			idleSince := time.Since(s.lastSend())
			if idleSince >= interval {
				req := writeRequest{body: btp.Heartbeat{}, result: make(chan error, 1)}
				select {
				case s.writeCh <- req:
					<-req.result
				case <-s.stopCh:
					return
				}
			}
		}
	}
}

func (s *Session) readLoop(handler Handler) error {
	watchdogWindow := 2 * time.Duration(s.cfg.HeartbeatInterval) * time.Second
	s.markRecv()

	for {
		if s.stopped() {
			return nil
		}

		msg, err := readFrameWithWatchdog(s.conn, watchdogWindow, s.lastRecv)
		if err != nil {
			if s.stopped() {
				return nil
			}
			if errors.Is(err, errPeerTimeout) {
				terminateErr := peerTimeoutErr()
				s.terminate(terminateErr)
				return terminateErr
			}
			terminateErr := s.classifyReadErr(err)
			s.terminate(terminateErr)
			return terminateErr
		}
		s.markRecv()
		framesReceived.WithLabelValues(msg.Header.BodyEncoding.String()).Inc()

		switch body := msg.Body.(type) {
		case btp.Heartbeat:
			continue
		case *btp.Disconnect:
			s.setState(StateStopping)
			if handler != nil {
				handler(body)
			}
			s.Stop()
			return nil
		default:
			if handler != nil {
				handler(body)
			}
		}
	}
}

var errPeerTimeout = errors.New("peer timeout")

// readFrameWithWatchdog reads one frame, failing with errPeerTimeout if the
// read doesn't complete before the watchdog window elapses since the last
// received frame. This realizes the optional inbound heartbeat watchdog
// spec.md §5 allows but doesn't require.
func readFrameWithWatchdog(conn io.ReadWriteCloser, window time.Duration, lastRecv func() time.Time) (btp.Message, error) {
	type result struct {
		msg btp.Message
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		msg, err := btp.ReadFrame(conn)
		resultCh <- result{msg, err}
	}()

	deadline := lastRecv().Add(window)
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case r := <-resultCh:
		return r.msg, r.err
	case <-timer.C:
		return btp.Message{}, errPeerTimeout
	}
}

func (s *Session) classifyReadErr(err error) error {
	var parseErr *btp.ParseError
	if errors.As(err, &parseErr) {
		return protocolErr(err)
	}
	return transportErr(err)
}

func (s *Session) terminate(err error) {
	s.closeErrMu.Lock()
	if s.closeErr == nil {
		s.closeErr = err
		var sessionErr *SessionError
		if errors.As(err, &sessionErr) {
			sessionErrors.WithLabelValues(sessionErr.Kind.String()).Inc()
		}
	}
	s.closeErrMu.Unlock()
	s.Stop()
}

func (s *Session) markSent() { s.lastSendNanos.Store(time.Now().UnixNano()) }
func (s *Session) lastSend() time.Time {
	return time.Unix(0, s.lastSendNanos.Load())
}

func (s *Session) markRecv() { s.lastRecvNanos.Store(time.Now().UnixNano()) }
func (s *Session) lastRecv() time.Time {
	return time.Unix(0, s.lastRecvNanos.Load())
}

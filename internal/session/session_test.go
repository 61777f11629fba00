package session

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/bitnomial/btnl-client/pkg/btp"
)

func testConfig() Config {
	return Config{ConnectionID: 1, HeartbeatInterval: 1}
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	client, peer := net.Pipe()
	defer client.Close()
	defer peer.Close()

	peerDone := make(chan error, 1)
	go func() {
		msg, err := btp.ReadFrame(peer)
		if err != nil {
			peerDone <- err
			return
		}
		if msg.Header.SequenceID != 1 {
			peerDone <- errUnexpected("expected sequence 1 for login")
			return
		}
		if _, ok := msg.Body.(*btp.LoginRequest); !ok {
			peerDone <- errUnexpected("expected LoginRequest body")
			return
		}
		peerDone <- btp.WriteFrame(peer, 0, btp.LoginAck{})
	}()

	s := New(client, testConfig(), nil)
	if err := s.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.State() != StateOpen {
		t.Fatalf("State() = %v, want Open", s.State())
	}
	if err := <-peerDone; err != nil {
		t.Fatalf("peer: %v", err)
	}
}

func TestLoginRejected(t *testing.T) {
	t.Parallel()

	client, peer := net.Pipe()
	defer client.Close()
	defer peer.Close()

	go func() {
		btp.ReadFrame(peer)
		btp.WriteFrame(peer, 0, &btp.LoginReject{Reason: btp.LoginRejectUnauthorized})
	}()

	s := New(client, testConfig(), nil)
	err := s.Login(context.Background())
	if err == nil {
		t.Fatal("expected login rejection error")
	}
	sessErr, ok := err.(*SessionError)
	if !ok || sessErr.Kind != LoginRejected {
		t.Fatalf("err = %v, want a SessionError{Kind: LoginRejected}", err)
	}
	if sessErr.Reason != btp.LoginRejectUnauthorized {
		t.Errorf("Reason = %v, want Unauthorized", sessErr.Reason)
	}
	if s.State() != StateClosed {
		t.Errorf("State() = %v, want Closed", s.State())
	}
}

func TestSequenceIDsMonotonicNoGaps(t *testing.T) {
	t.Parallel()

	client, peer := net.Pipe()
	defer client.Close()
	defer peer.Close()

	go func() {
		btp.ReadFrame(peer)
		btp.WriteFrame(peer, 0, btp.LoginAck{})
	}()

	s := New(client, testConfig(), nil)
	if err := s.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	const n = 5
	seqs := make(chan uint32, n)
	go func() {
		for i := 0; i < n; i++ {
			msg, err := btp.ReadFrame(peer)
			if err != nil {
				return
			}
			seqs <- msg.Header.SequenceID
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(btp.Body) {})
	}()

	for i := uint64(1); i <= n; i++ {
		open := &btp.Open{OrderID: i, ProductID: 1, Side: btp.SideBid, Price: 100, Quantity: 1, TIF: btp.TimeInForceDay}
		if err := s.Send(open); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	for want := uint32(2); want <= n+1; want++ {
		select {
		case got := <-seqs:
			if got != want {
				t.Fatalf("sequence = %d, want %d", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for frame")
		}
	}

	cancel()
	client.Close()
	<-done
}

func TestDisconnectIsNormalTermination(t *testing.T) {
	t.Parallel()

	client, peer := net.Pipe()
	defer client.Close()
	defer peer.Close()

	go func() {
		btp.ReadFrame(peer)
		btp.WriteFrame(peer, 0, btp.LoginAck{})
		expected := uint32(5)
		actual := uint32(7)
		btp.WriteFrame(peer, 0, &btp.Disconnect{
			Reason:      btp.DisconnectSequenceIDFault,
			ExpectedSeq: &expected,
			ActualSeq:   &actual,
		})
	}()

	s := New(client, testConfig(), nil)
	if err := s.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	received := make(chan btp.Body, 1)
	err := s.Run(context.Background(), func(body btp.Body) {
		received <- body
	})
	if err != nil {
		t.Fatalf("Run returned an error for a normal Disconnect termination: %v", err)
	}

	select {
	case body := <-received:
		dc, ok := body.(*btp.Disconnect)
		if !ok {
			t.Fatalf("handler received %T, want *btp.Disconnect", body)
		}
		if dc.Reason != btp.DisconnectSequenceIDFault {
			t.Errorf("Reason = %v, want SequenceIDFault", dc.Reason)
		}
		if dc.ExpectedSeq == nil || *dc.ExpectedSeq != 5 {
			t.Errorf("ExpectedSeq = %v, want 5", dc.ExpectedSeq)
		}
	default:
		t.Fatal("handler was never called with the Disconnect")
	}

	if s.State() != StateClosed {
		t.Errorf("State() = %v, want Closed", s.State())
	}
}

func TestHeartbeatEmittedWhenIdle(t *testing.T) {
	t.Parallel()

	client, peer := net.Pipe()
	defer client.Close()
	defer peer.Close()

	go func() {
		btp.ReadFrame(peer)
		btp.WriteFrame(peer, 0, btp.LoginAck{})
	}()

	s := New(client, Config{ConnectionID: 1, HeartbeatInterval: 1}, nil)
	if err := s.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- s.Run(ctx, func(btp.Body) {}) }()

	msg, err := btp.ReadFrame(peer)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if msg.Header.BodyEncoding != btp.EncodingHeartbeat {
		t.Fatalf("encoding = %v, want Heartbeat", msg.Header.BodyEncoding)
	}
	if msg.Header.SequenceID != 0 {
		t.Errorf("heartbeat sequence_id = %d, want 0", msg.Header.SequenceID)
	}

	cancel()
	client.Close()
	<-runDone
}

type testErr string

func (e testErr) Error() string { return string(e) }
func errUnexpected(msg string) error { return testErr(msg) }

// Package ws implements the real-time market-data feed: trade prints,
// book-level deltas, full book snapshots, and block-trade/market-status
// notifications, delivered over a single subscribe/dispatch WebSocket
// connection per spec.md §6.
//
// Grounded on internal/exchange/ws.go's WSFeed: one connection, exponential
// reconnect backoff (1s → 30s), a keepalive ping loop paired with a
// read-deadline watchdog, automatic re-subscribe on reconnect, and an
// envelope-peek-then-typed-unmarshal dispatch loop. This feed has one
// channel set instead of WSFeed's separate market/user feeds, because the
// exchange's WebSocket surface isn't split that way — every channel here is
// public, unauthenticated market data.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bitnomial/btnl-client/pkg/types"
)

const (
	pingInterval     = 50 * time.Second // how often we send a keepalive ping
	readTimeout      = 90 * time.Second // ~2 missed pings triggers reconnect
	maxReconnectWait = 30 * time.Second
	writeTimeout     = 10 * time.Second
	eventBufferSize  = 256
)

// subscription is one tracked (channel, product codes) pair, re-sent as a
// fresh WSSubscribeMsg whenever the connection is rebuilt.
type subscription struct {
	channel      types.WSChannelName
	productCodes map[string]bool
}

// Feed manages the WebSocket connection to the market-data feed: connection
// lifecycle, subscription tracking across reconnects, and dispatch of
// incoming events onto per-event-type channels.
type Feed struct {
	url string

	connMu sync.Mutex
	conn   *websocket.Conn

	subMu sync.Mutex
	subs  map[types.WSChannelName]*subscription

	tradeCh  chan types.WSTradeEvent
	levelCh  chan types.WSLevelEvent
	bookCh   chan types.WSBookEvent
	blockCh  chan types.WSBlockEvent
	statusCh chan types.WSMarketStatusEvent

	logger *slog.Logger
}

// NewFeed builds a Feed for the given WebSocket URL. Call Subscribe before
// or after Run starts; either way the subscription is (re)sent whenever a
// connection is established.
func NewFeed(wsURL string, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		url:      wsURL,
		subs:     make(map[types.WSChannelName]*subscription),
		tradeCh:  make(chan types.WSTradeEvent, eventBufferSize),
		levelCh:  make(chan types.WSLevelEvent, eventBufferSize),
		bookCh:   make(chan types.WSBookEvent, eventBufferSize),
		blockCh:  make(chan types.WSBlockEvent, eventBufferSize),
		statusCh: make(chan types.WSMarketStatusEvent, eventBufferSize),
		logger:   logger.With("component", "ws_feed"),
	}
}

// TradeEvents returns a read-only channel of trade prints.
func (f *Feed) TradeEvents() <-chan types.WSTradeEvent { return f.tradeCh }

// LevelEvents returns a read-only channel of single-level book deltas.
func (f *Feed) LevelEvents() <-chan types.WSLevelEvent { return f.levelCh }

// BookEvents returns a read-only channel of full book snapshots.
func (f *Feed) BookEvents() <-chan types.WSBookEvent { return f.bookCh }

// BlockEvents returns a read-only channel of confirmed block trades.
func (f *Feed) BlockEvents() <-chan types.WSBlockEvent { return f.blockCh }

// StatusEvents returns a read-only channel of market-status transitions.
func (f *Feed) StatusEvents() <-chan types.WSMarketStatusEvent { return f.statusCh }

// Run connects and maintains the connection, reconnecting with exponential
// backoff until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) error {
	backoff := time.Second

	for {
		err := f.connectAndRead(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		f.logger.Warn("websocket disconnected, reconnecting", "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxReconnectWait {
			backoff = maxReconnectWait
		}
	}
}

// Subscribe adds product codes to a channel's subscription and, if already
// connected, sends the update immediately.
func (f *Feed) Subscribe(channel types.WSChannelName, productCodes []string) error {
	f.subMu.Lock()
	sub, ok := f.subs[channel]
	if !ok {
		sub = &subscription{channel: channel, productCodes: make(map[string]bool)}
		f.subs[channel] = sub
	}
	for _, code := range productCodes {
		sub.productCodes[code] = true
	}
	f.subMu.Unlock()

	return f.writeJSON(types.WSSubscribeMsg{
		Type:         "subscribe",
		ProductCodes: productCodes,
		Channels:     []types.WSChannel{{Name: channel, ProductCodes: productCodes}},
	})
}

// Unsubscribe removes product codes from a channel's subscription.
func (f *Feed) Unsubscribe(channel types.WSChannelName, productCodes []string) error {
	f.subMu.Lock()
	if sub, ok := f.subs[channel]; ok {
		for _, code := range productCodes {
			delete(sub.productCodes, code)
		}
	}
	f.subMu.Unlock()

	return f.writeJSON(types.WSSubscribeMsg{
		Type:         "unsubscribe",
		ProductCodes: productCodes,
		Channels:     []types.WSChannel{{Name: channel, ProductCodes: productCodes}},
	})
}

// Close closes the underlying connection, if any.
func (f *Feed) Close() error {
	f.connMu.Lock()
	defer f.connMu.Unlock()
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}

func (f *Feed) connectAndRead(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	f.connMu.Lock()
	f.conn = conn
	f.connMu.Unlock()

	defer func() {
		f.connMu.Lock()
		conn.Close()
		f.conn = nil
		f.connMu.Unlock()
	}()

	if err := f.resendSubscriptions(); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	f.logger.Info("websocket connected", "url", f.url)

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go f.pingLoop(pingCtx)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		f.dispatch(msg)
	}
}

// resendSubscriptions re-sends every tracked channel's subscription — used
// both for the initial connection and on every reconnect.
func (f *Feed) resendSubscriptions() error {
	f.subMu.Lock()
	channels := make([]types.WSChannel, 0, len(f.subs))
	for _, sub := range f.subs {
		codes := make([]string, 0, len(sub.productCodes))
		for code := range sub.productCodes {
			codes = append(codes, code)
		}
		channels = append(channels, types.WSChannel{Name: sub.channel, ProductCodes: codes})
	}
	f.subMu.Unlock()

	if len(channels) == 0 {
		return nil
	}
	return f.writeJSON(types.WSSubscribeMsg{Type: "subscribe", Channels: channels})
}

func (f *Feed) dispatch(data []byte) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		f.logger.Debug("ignoring non-json ws message", "data", string(data))
		return
	}

	switch envelope.Type {
	case "trade":
		var evt types.WSTradeEvent
		if f.unmarshalOrLog(data, &evt, "trade") {
			sendEvent(f.tradeCh, evt, "trade", f.logger)
		}
	case "level":
		var evt types.WSLevelEvent
		if f.unmarshalOrLog(data, &evt, "level") {
			sendEvent(f.levelCh, evt, "level", f.logger)
		}
	case "book":
		var evt types.WSBookEvent
		if f.unmarshalOrLog(data, &evt, "book") {
			sendEvent(f.bookCh, evt, "book", f.logger)
		}
	case "block":
		var evt types.WSBlockEvent
		if f.unmarshalOrLog(data, &evt, "block") {
			sendEvent(f.blockCh, evt, "block", f.logger)
		}
	case "status":
		var evt types.WSMarketStatusEvent
		if f.unmarshalOrLog(data, &evt, "status") {
			sendEvent(f.statusCh, evt, "status", f.logger)
		}
	default:
		f.logger.Debug("unknown ws event type", "type", envelope.Type)
	}
}

func (f *Feed) unmarshalOrLog(data []byte, out any, kind string) bool {
	if err := json.Unmarshal(data, out); err != nil {
		f.logger.Error("unmarshal ws event", "type", kind, "error", err)
		return false
	}
	return true
}

// sendEvent delivers evt to ch without blocking, dropping it (with a log)
// if the consumer has fallen behind.
func sendEvent[T any](ch chan T, evt T, kind string, logger *slog.Logger) {
	select {
	case ch <- evt:
	default:
		logger.Warn("channel full, dropping event", "type", kind)
	}
}

// pingLoop sends a keepalive ping every pingInterval until ctx is cancelled
// or a write fails, in which case the read loop's deadline will notice the
// dead connection and trigger a reconnect.
func (f *Feed) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.writeMessage(websocket.PingMessage, nil); err != nil {
				f.logger.Warn("ping failed", "error", err)
				return
			}
		}
	}
}

func (f *Feed) writeMessage(msgType int, data []byte) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()
	if f.conn == nil {
		return nil // not connected yet; resendSubscriptions will catch up on connect
	}
	f.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return f.conn.WriteMessage(msgType, data)
}

func (f *Feed) writeJSON(v any) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()
	if f.conn == nil {
		return nil // not connected yet; resendSubscriptions will catch up on connect
	}
	f.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return f.conn.WriteJSON(v)
}

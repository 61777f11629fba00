// ordertrader is a minimal runnable BTP order-entry client: it logs in,
// opens one order, and prints every ack/reject/fill/close as it arrives
// until stopped.
//
// Grounded on original_source/btnl_client/client.py's OrderEntryClient and
// its commented-out SimpleTrader subclass (open one order, print whatever
// comes back) — this is the Go analogue of that example, dropped by the
// distillation but present in the original source. Structured like
// cmd/bot/main.go: load config, construct, run until a shutdown signal,
// then Stop().
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/bitnomial/btnl-client/internal/config"
	"github.com/bitnomial/btnl-client/internal/session"
	"github.com/bitnomial/btnl-client/pkg/btp"
)

func main() {
	cfgPath := "configs/config.yaml"
	if p := os.Getenv("BTNL_CONFIG"); p != "" {
		cfgPath = p
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to config.yaml")
	productID := flag.Uint64("product-id", 3668, "product to open an order against")
	price := flag.Int64("price", 10000, "order price (integer ticks)")
	quantity := flag.Uint64("quantity", 10, "order quantity")
	side := flag.String("side", "bid", "order side: bid or ask")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", cfgPath)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	opts := &slog.HandlerOptions{}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)

	authToken, err := session.ParseAuthToken(cfg.Connection.AuthToken)
	if err != nil {
		logger.Error("bad auth token", "error", err)
		os.Exit(1)
	}

	addr := net.JoinHostPort(cfg.Connection.Host, strconv.Itoa(cfg.Connection.Port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		logger.Error("failed to connect", "address", addr, "error", err)
		os.Exit(1)
	}

	sess := session.New(conn, session.Config{
		ConnectionID:      cfg.Connection.ConnectionID,
		AuthToken:         authToken,
		HeartbeatInterval: cfg.Connection.HeartbeatInterval,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sess.Login(ctx); err != nil {
		logger.Error("login failed", "error", err)
		os.Exit(1)
	}
	logger.Info("logged in", "connection_id", cfg.Connection.ConnectionID)

	open := &btp.Open{
		OrderID:   1,
		ProductID: *productID,
		Side:      parseSide(*side),
		Price:     *price,
		Quantity:  uint32(*quantity),
		TIF:       btp.TimeInForceDay,
	}
	if err := sess.Send(open); err != nil {
		logger.Error("failed to open order", "error", err)
		os.Exit(1)
	}
	logger.Info("order sent", "order_id", open.OrderID, "product_id", open.ProductID, "side", open.Side, "price", open.Price, "quantity", open.Quantity)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		sess.Stop()
	}()

	onBody := func(body btp.Body) {
		switch b := body.(type) {
		case *btp.Ack:
			logger.Info("ack", "ack_id", b.AckID, "order_id", b.OrderID, "modify_id", derefOrZero(b.ModifyID))
		case *btp.Reject:
			logger.Warn("reject", "order_id", b.OrderID, "reason", b.Reason)
		case *btp.Fill:
			logger.Info("fill", "ack_id", b.AckID, "order_id", b.OrderID, "price", b.Price, "quantity", b.Quantity, "liquidity", string(b.Liquidity))
		case *btp.Close:
			logger.Info("close", "ack_id", b.AckID, "order_id", b.OrderID, "reason", string(b.CloseReason))
		case *btp.Disconnect:
			logger.Warn("disconnect", "reason", b.Reason)
		default:
			logger.Info("message", "body", body)
		}
	}

	if err := sess.Run(ctx, onBody); err != nil {
		logger.Error("session ended", "error", err)
		os.Exit(1)
	}
}

func parseSide(s string) btp.Side {
	if s == "ask" {
		return btp.SideAsk
	}
	return btp.SideBid
}

func derefOrZero(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}

package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/bitnomial/btnl-client/internal/auth"
	"github.com/bitnomial/btnl-client/internal/config"
	"github.com/bitnomial/btnl-client/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, srv *httptest.Server, signer *auth.Signer) *Client {
	t.Helper()
	cfg := config.Config{API: config.APIConfig{BaseURL: srv.URL, Env: "sandbox"}}
	c := NewClient(cfg, signer, testLogger())
	c.rl = NewRequestLimiter(1000, 1000) // don't let the default throttle slow tests
	return c
}

func TestGetProductSpecDecodesResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sandbox/product/spec/7" {
			t.Errorf("path = %q, want /sandbox/product/spec/7", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.ProductSpec{
			Type:      types.ProductSpecFuture,
			ProductID: 7,
			Symbol:    "ZZZF",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	spec, err := c.GetProductSpec(context.Background(), 7, types.ProductListParams{})
	if err != nil {
		t.Fatalf("GetProductSpec: %v", err)
	}
	if spec.ProductID != 7 || spec.Symbol != "ZZZF" {
		t.Errorf("spec = %+v, want ProductID=7 Symbol=ZZZF", spec)
	}
}

func TestGetProductSpecsPropagatesHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	c.http.SetRetryCount(0) // keep the call to a single attempt

	_, err := c.GetProductSpecs(context.Background(), types.ProductListParams{})
	if err == nil {
		t.Fatal("expected an error")
	}
	restErr, ok := err.(*RestError)
	if !ok {
		t.Fatalf("err = %T, want *RestError", err)
	}
	if restErr.Kind != Http || restErr.Status != http.StatusInternalServerError {
		t.Errorf("restErr = %+v, want Kind=Http Status=500", restErr)
	}
}

func TestGetOrdersSignsRequest(t *testing.T) {
	t.Parallel()

	var gotConnID, gotTimestamp, gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotConnID = r.Header.Get(auth.HeaderConnectionID)
		gotTimestamp = r.Header.Get(auth.HeaderTimestamp)
		gotSig = r.Header.Get(auth.HeaderSignature)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.PaginatedResponse[types.Order]{
			Data:       []types.Order{{OrderID: 1}},
			Pagination: types.Pagination{Cursor: "next"},
		})
	}))
	defer srv.Close()

	signer, err := auth.NewSigner(42, "deadbeef")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	c := newTestClient(t, srv, signer)

	page, err := c.GetOrders(context.Background(), types.ListParams{Limit: 10})
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(page.Data) != 1 || page.Pagination.Cursor != "next" {
		t.Errorf("page = %+v, want 1 order with cursor=next", page)
	}
	if gotConnID != "42" {
		t.Errorf("connection-id header = %q, want 42", gotConnID)
	}
	if gotTimestamp == "" {
		t.Error("timestamp header was empty")
	}
	if gotSig == "" {
		t.Error("signature header was empty")
	}
}

func TestGetOrdersRequiresSigner(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not have been contacted")
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	_, err := c.GetOrders(context.Background(), types.ListParams{})
	if err == nil {
		t.Fatal("expected an error when no signer is configured")
	}
}

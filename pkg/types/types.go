// Package types defines the JSON-facing data structures shared by the REST
// and WebSocket façades.
//
// This package is the common vocabulary for everything that talks JSON —
// product specs, market data, orders/fills/block-trades, pagination, and
// WebSocket subscribe/event envelopes. It has no dependency on the binary
// wire protocol (pkg/btp) or on any internal package, so it can be imported
// by any layer. Enumerations are plain Go strings matching the exchange's
// declared values, so the standard encoding/json marshaler already produces
// the wire form spec.md §4.5 calls for; absent fields are omitted via
// `omitempty` or pointer fields rather than zero values.
package types

import (
	"github.com/shopspring/decimal"
)

// ————————————————————————————————————————————————————————————————————————
// Core enums
// ————————————————————————————————————————————————————————————————————————

// BaseSymbol identifies a product family. BUI and BUS are only valid with
// env=prod; ZZZ is only valid with env=sandbox.
type BaseSymbol string

const (
	BaseSymbolBUI BaseSymbol = "BUI"
	BaseSymbolBUS BaseSymbol = "BUS"
	BaseSymbolZZZ BaseSymbol = "ZZZ"
)

// ProductStatus is the lifecycle state of a tradable product.
type ProductStatus string

const (
	ProductStatusActive      ProductStatus = "active"
	ProductStatusForthcoming ProductStatus = "forthcoming"
	ProductStatusExpired     ProductStatus = "expired"
)

// ProductSpecType discriminates the three product spec shapes.
type ProductSpecType string

const (
	ProductSpecFuture ProductSpecType = "future"
	ProductSpecSpread ProductSpecType = "spread"
	ProductSpecOption ProductSpecType = "option"
)

// Ordering selects ascending or descending sort for paginated list endpoints.
type Ordering string

const (
	OrderingAsc  Ordering = "asc"
	OrderingDesc Ordering = "desc"
)

// BlockTradeStatus is the settlement state of a reported block trade.
type BlockTradeStatus string

const (
	BlockTradeStatusPending   BlockTradeStatus = "pending"
	BlockTradeStatusConfirmed BlockTradeStatus = "confirmed"
	BlockTradeStatusRejected  BlockTradeStatus = "rejected"
)

// ————————————————————————————————————————————————————————————————————————
// Product specs and data — GET /product/spec(s), GET /product/data(um)
// ————————————————————————————————————————————————————————————————————————

// SpreadSpecLeg is one leg of a calendar-spread product spec.
type SpreadSpecLeg struct {
	ProductID int64 `json:"product_id"`
	Weight    int   `json:"weight"`
}

// ProductSpec is the superset shape for future/spread/option specs. The
// server tags the response with Type; fields that don't apply to the
// reported Type are left at their zero value. Decoded via json.Unmarshal
// into this struct; Type is carried through as reported and is not checked
// against the set of known spec types.
type ProductSpec struct {
	Type                  ProductSpecType `json:"type"`
	ProductID             int64           `json:"product_id"`
	ProductName           string          `json:"product_name"`
	MaxOrderQuantity      int64           `json:"max_order_quantity"`
	MinBlockSize          int64           `json:"min_block_size"`
	PriceBandVariation    int64           `json:"price_band_variation"`
	PriceLimitPercentage  decimal.Decimal `json:"price_limit_percentage"`
	PriceIncrement        int64           `json:"price_increment"`
	FirstTradingDay       string          `json:"first_trading_day"`
	FinalSettleTime       string          `json:"final_settle_time"`
	DailyOpenTime         string          `json:"daily_open_time"`
	DailySettleTime       string          `json:"daily_settle_time"`
	Symbol                string          `json:"symbol"`
	CQGSymbol             string          `json:"cqg_symbol"`
	ProductStatus         ProductStatus   `json:"product_status"`
	BaseSymbol            BaseSymbol      `json:"base_symbol"`

	// Future-only.
	MarginUnit         string `json:"margin_unit,omitempty"`
	SettlementMethod   string `json:"settlement_method,omitempty"`
	ContractSize       int64  `json:"contract_size,omitempty"`
	ContractSizeUnit   string `json:"contract_size_unit,omitempty"`
	PriceQuotationUnit string `json:"price_quotation_unit,omitempty"`
	Month              int    `json:"month,omitempty"`
	Year               int    `json:"year,omitempty"`

	// Spread-only.
	Legs []SpreadSpecLeg `json:"legs,omitempty"`

	// Option-only.
	UnderlyingProduct int64           `json:"underlying_product,omitempty"`
	StrikePrice       *decimal.Decimal `json:"strike_price,omitempty"`
	OptionType        string          `json:"option_type,omitempty"`
}

// ProductData is a point-in-time market-data snapshot for one product.
// Nullable fields (no trade yet today, no settlement yet) are pointers.
type ProductData struct {
	ProductID                int64            `json:"product_id"`
	LastPriceTime            *string          `json:"last_price_time,omitempty"`
	LastPrice                *decimal.Decimal `json:"last_price,omitempty"`
	SettlementTime           *string          `json:"settlement_time,omitempty"`
	SettlementPrice          *decimal.Decimal `json:"settlement_price,omitempty"`
	SettlementPriceComment   *string          `json:"settlement_price_comment,omitempty"`
	OpenPrice                *decimal.Decimal `json:"open_price,omitempty"`
	HighPrice                *decimal.Decimal `json:"high_price,omitempty"`
	LowPrice                 *decimal.Decimal `json:"low_price,omitempty"`
	ClosePrice               *decimal.Decimal `json:"close_price,omitempty"`
	PriceChange              *decimal.Decimal `json:"price_change,omitempty"`
	Volume                   *decimal.Decimal `json:"volume,omitempty"`
	NotionalVolume           *decimal.Decimal `json:"notional_volume,omitempty"`
	BlockVolume              *decimal.Decimal `json:"block_volume,omitempty"`
	NotionalBlockVolume      *decimal.Decimal `json:"notional_block_volume,omitempty"`
	PriceLimitUpper          decimal.Decimal  `json:"price_limit_upper"`
	PriceLimitLower          decimal.Decimal  `json:"price_limit_lower"`
	OpenInterest             *decimal.Decimal `json:"open_interest,omitempty"`
	OpenInterestChange       *decimal.Decimal `json:"open_interest_change,omitempty"`
}

// ————————————————————————————————————————————————————————————————————————
// Pagination — GET /orders, /fills, /block-trades
// ————————————————————————————————————————————————————————————————————————

// Pagination carries the cursor for the next page of a list response.
type Pagination struct {
	Cursor string `json:"cursor"`
}

// PaginatedResponse wraps a list endpoint's data page plus its pagination
// cursor, matching spec.md §6's `{data: [...], pagination: {cursor}}` shape.
type PaginatedResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ————————————————————————————————————————————————————————————————————————
// Orders, fills, block trades — HMAC-authenticated list endpoints
// ————————————————————————————————————————————————————————————————————————

// Order is one row of the GET /orders response: the REST-surfaced history
// of an order-entry session's orders, independent of the live BTP session
// that placed them.
type Order struct {
	OrderID           uint64          `json:"order_id"`
	ConnectionID      uint64          `json:"connection_id"`
	AccountID         string          `json:"account_id"`
	ClearingFirmCode  string          `json:"clearing_firm_code"`
	ProductID         int64           `json:"product_id"`
	Symbol            string          `json:"symbol"`
	ProductType       ProductSpecType `json:"product_type"`
	Side              string          `json:"side"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int64           `json:"quantity"`
	QuantityRemaining int64           `json:"quantity_remaining"`
	Status            string          `json:"status"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

// Fill is one row of the GET /fills response.
type Fill struct {
	AckID            uint64          `json:"ack_id"`
	OrderID          uint64          `json:"order_id"`
	ConnectionID     uint64          `json:"connection_id"`
	AccountID        string          `json:"account_id"`
	ClearingFirmCode string          `json:"clearing_firm_code"`
	ProductID        int64           `json:"product_id"`
	Symbol           string          `json:"symbol"`
	ProductType      ProductSpecType `json:"product_type"`
	Side             string          `json:"side"`
	Price            decimal.Decimal `json:"price"`
	Quantity         int64           `json:"quantity"`
	Liquidity        string          `json:"liquidity"`
	FilledAt         string          `json:"filled_at"`
}

// BlockTrade is one row of the GET /block-trades response.
type BlockTrade struct {
	ID               string           `json:"id"`
	ConnectionID     uint64           `json:"connection_id"`
	AccountID        string           `json:"account_id"`
	ClearingFirmCode string           `json:"clearing_firm_code"`
	ProductID        int64            `json:"product_id"`
	Symbol           string           `json:"symbol"`
	ProductType      ProductSpecType  `json:"product_type"`
	Price            decimal.Decimal  `json:"price"`
	Quantity         int64            `json:"quantity"`
	Status           BlockTradeStatus `json:"status"`
	ReportedAt       string           `json:"reported_at"`
}

// ListParams is the shared query-parameter set for /orders, /fills, and
// /block-trades. Slice fields repeat the key on the wire (spec.md §6
// "list-valued parameters repeat the key"); the same struct also feeds the
// HMAC canonical-string builder in internal/auth.
type ListParams struct {
	Symbols           []string
	ConnectionIDs     []int64
	ProductIDs        []int64
	AccountIDs        []string
	ClearingFirmCodes []string
	ProductTypes      []ProductSpecType
	Statuses          []BlockTradeStatus // /block-trades only
	Order             Ordering
	BeginTime         string
	EndTime           string
	Limit             int
	Day               string
	Cursor            string
}

// ProductListParams is the query-parameter set for the public product
// endpoints.
type ProductListParams struct {
	Day        string
	Active     *bool
	BaseSymbol BaseSymbol
}

// ————————————————————————————————————————————————————————————————————————
// WebSocket subscribe/dispatch envelopes
// ————————————————————————————————————————————————————————————————————————

// WSChannelName is one of the four subscribable WebSocket channels.
type WSChannelName string

const (
	WSChannelTrade  WSChannelName = "trade"
	WSChannelBook   WSChannelName = "book"
	WSChannelBlock  WSChannelName = "block"
	WSChannelStatus WSChannelName = "status"
)

// WSChannel names one subscribed channel and which product codes it covers.
type WSChannel struct {
	Name         WSChannelName `json:"name"`
	ProductCodes []string      `json:"product_codes"`
}

// WSSubscribeMsg is the first client message on a new WebSocket connection.
type WSSubscribeMsg struct {
	Type         string      `json:"type"` // "subscribe" or "unsubscribe"
	ProductCodes []string    `json:"product_codes"`
	Channels     []WSChannel `json:"channels"`
}

// WSTradeEvent reports a trade print on a subscribed product.
type WSTradeEvent struct {
	Type      string          `json:"type"` // always "trade"
	AckID     uint64          `json:"ack_id"`
	ProductID int64           `json:"product_id"`
	TakerSide string          `json:"taker_side"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

// WSLevelEvent reports a single resting-order-book level change.
type WSLevelEvent struct {
	Type      string          `json:"type"` // always "level"
	AckID     uint64          `json:"ack_id"`
	ProductID int64           `json:"product_id"`
	Side      string          `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

// WSBookLevel is one bid or ask level within a WSBookEvent snapshot.
type WSBookLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// WSBookEvent is a full resting-order-book snapshot for a product.
type WSBookEvent struct {
	Type       string        `json:"type"` // always "book"
	LastAckID  uint64        `json:"last_ack_id"`
	ProductID  int64         `json:"product_id"`
	Bids       []WSBookLevel `json:"bids"`
	Asks       []WSBookLevel `json:"asks"`
}

// WSBlockEvent reports a confirmed block trade.
type WSBlockEvent struct {
	Type      string          `json:"type"` // always "block"
	AckID     uint64          `json:"ack_id"`
	ProductID int64           `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

// WSMarketStatusEvent reports a product's trading-state transition.
type WSMarketStatusEvent struct {
	Type      string `json:"type"` // always "status"
	AckID     uint64 `json:"ack_id"`
	ProductID int64  `json:"product_id"`
	State     string `json:"state"` // "open", "halt", "closed"
}

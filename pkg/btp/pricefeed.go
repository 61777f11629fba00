package btp

import (
	"encoding/binary"
	"fmt"
)

// Trade reports a completed match. Sub-type byte 'T'.
type Trade struct {
	AckID     uint64
	ProductID uint64
	TakerSide Side
	Price     int64
	Quantity  uint32
}

func (t *Trade) Encoding() BodyEncoding { return EncodingPricefeed }

func (t *Trade) Encode() []byte {
	buf := make([]byte, 30)
	buf[0] = 'T'
	binary.LittleEndian.PutUint64(buf[1:9], t.AckID)
	binary.LittleEndian.PutUint64(buf[9:17], t.ProductID)
	buf[17] = byte(t.TakerSide)
	binary.LittleEndian.PutUint64(buf[18:26], uint64(t.Price))
	binary.LittleEndian.PutUint32(buf[26:30], t.Quantity)
	return buf
}

func decodeTrade(data []byte) (*Trade, error) {
	if len(data) < 30 {
		return nil, shortBufferErr("Trade")
	}
	if data[0] != 'T' {
		return nil, wrongTagErr("Trade")
	}
	side := Side(data[17])
	if !side.valid() {
		return nil, unknownEnumErr("Trade.taker_side")
	}
	return &Trade{
		AckID:     binary.LittleEndian.Uint64(data[1:9]),
		ProductID: binary.LittleEndian.Uint64(data[9:17]),
		TakerSide: side,
		Price:     int64(binary.LittleEndian.Uint64(data[18:26])),
		Quantity:  binary.LittleEndian.Uint32(data[26:30]),
	}, nil
}

// Level reports a change to a single resting price level. Sub-type byte
// 'L'.
type Level struct {
	AckID     uint64
	ProductID uint64
	Side      Side
	Price     int64
	Quantity  uint32
}

func (l *Level) Encoding() BodyEncoding { return EncodingPricefeed }

func (l *Level) Encode() []byte {
	buf := make([]byte, 30)
	buf[0] = 'L'
	binary.LittleEndian.PutUint64(buf[1:9], l.AckID)
	binary.LittleEndian.PutUint64(buf[9:17], l.ProductID)
	buf[17] = byte(l.Side)
	binary.LittleEndian.PutUint64(buf[18:26], uint64(l.Price))
	binary.LittleEndian.PutUint32(buf[26:30], l.Quantity)
	return buf
}

func decodeLevel(data []byte) (*Level, error) {
	if len(data) < 30 {
		return nil, shortBufferErr("Level")
	}
	if data[0] != 'L' {
		return nil, wrongTagErr("Level")
	}
	side := Side(data[17])
	if !side.valid() {
		return nil, unknownEnumErr("Level.side")
	}
	return &Level{
		AckID:     binary.LittleEndian.Uint64(data[1:9]),
		ProductID: binary.LittleEndian.Uint64(data[9:17]),
		Side:      side,
		Price:     int64(binary.LittleEndian.Uint64(data[18:26])),
		Quantity:  binary.LittleEndian.Uint32(data[26:30]),
	}, nil
}

// BookLevel is one price/quantity pair inside a Book snapshot's bid or ask
// array. It has no sub-type byte of its own — Book parses these by consumed
// byte count, not element count.
type BookLevel struct {
	Price    int64
	Quantity uint32
}

const bookLevelLen = 12

func encodeBookLevel(l BookLevel) []byte {
	buf := make([]byte, bookLevelLen)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(l.Price))
	binary.LittleEndian.PutUint32(buf[8:12], l.Quantity)
	return buf
}

func decodeBookLevel(data []byte) BookLevel {
	return BookLevel{
		Price:    int64(binary.LittleEndian.Uint64(data[0:8])),
		Quantity: binary.LittleEndian.Uint32(data[8:12]),
	}
}

// Book is a full (bids, asks) snapshot. Sub-type byte 'B'. Bid and ask
// arrays are framed by a leading byte count, not an element count — see
// spec.md §4.1 "Book parses bid and ask arrays by consumed-bytes count".
type Book struct {
	LastAckID uint64
	ProductID uint64
	Bids      []BookLevel
	Asks      []BookLevel
}

func (b *Book) Encoding() BodyEncoding { return EncodingPricefeed }

func (b *Book) Encode() []byte {
	bidsBytes := make([]byte, 0, len(b.Bids)*bookLevelLen)
	for _, l := range b.Bids {
		bidsBytes = append(bidsBytes, encodeBookLevel(l)...)
	}
	asksBytes := make([]byte, 0, len(b.Asks)*bookLevelLen)
	for _, l := range b.Asks {
		asksBytes = append(asksBytes, encodeBookLevel(l)...)
	}

	buf := make([]byte, 0, 1+8+8+4+len(bidsBytes)+4+len(asksBytes))
	buf = append(buf, 'B')
	head := make([]byte, 16)
	binary.LittleEndian.PutUint64(head[0:8], b.LastAckID)
	binary.LittleEndian.PutUint64(head[8:16], b.ProductID)
	buf = append(buf, head...)

	bidsLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(bidsLen, uint32(len(bidsBytes)))
	buf = append(buf, bidsLen...)
	buf = append(buf, bidsBytes...)

	asksLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(asksLen, uint32(len(asksBytes)))
	buf = append(buf, asksLen...)
	buf = append(buf, asksBytes...)

	return buf
}

func decodeBookLevels(data []byte, lenBytes uint32, context string) ([]BookLevel, []byte, error) {
	if uint32(len(data)) < lenBytes {
		return nil, nil, shortBufferErr(context)
	}
	if lenBytes%bookLevelLen != 0 {
		return nil, nil, shortBufferErr(context + " misaligned length")
	}
	levels := make([]BookLevel, 0, lenBytes/bookLevelLen)
	for i := uint32(0); i < lenBytes; i += bookLevelLen {
		levels = append(levels, decodeBookLevel(data[i:i+bookLevelLen]))
	}
	return levels, data[lenBytes:], nil
}

func decodeBook(data []byte) (*Book, error) {
	if len(data) < 1+16+4 {
		return nil, shortBufferErr("Book header")
	}
	if data[0] != 'B' {
		return nil, wrongTagErr("Book")
	}
	lastAckID := binary.LittleEndian.Uint64(data[1:9])
	productID := binary.LittleEndian.Uint64(data[9:17])
	rest := data[17:]

	bidsLen := binary.LittleEndian.Uint32(rest[0:4])
	rest = rest[4:]
	bids, rest, err := decodeBookLevels(rest, bidsLen, "Book.bids")
	if err != nil {
		return nil, err
	}

	if len(rest) < 4 {
		return nil, shortBufferErr("Book.asks_len_bytes")
	}
	asksLen := binary.LittleEndian.Uint32(rest[0:4])
	rest = rest[4:]
	asks, _, err := decodeBookLevels(rest, asksLen, "Book.asks")
	if err != nil {
		return nil, err
	}

	return &Book{
		LastAckID: lastAckID,
		ProductID: productID,
		Bids:      bids,
		Asks:      asks,
	}, nil
}

// Block reports a privately negotiated block trade. Sub-type byte 'X'.
type Block struct {
	AckID     uint64
	ProductID uint64
	Price     int64
	Quantity  uint32
}

func (b *Block) Encoding() BodyEncoding { return EncodingPricefeed }

func (b *Block) Encode() []byte {
	buf := make([]byte, 29)
	buf[0] = 'X'
	binary.LittleEndian.PutUint64(buf[1:9], b.AckID)
	binary.LittleEndian.PutUint64(buf[9:17], b.ProductID)
	binary.LittleEndian.PutUint64(buf[17:25], uint64(b.Price))
	binary.LittleEndian.PutUint32(buf[25:29], b.Quantity)
	return buf
}

func decodeBlock(data []byte) (*Block, error) {
	if len(data) < 29 {
		return nil, shortBufferErr("Block")
	}
	if data[0] != 'X' {
		return nil, wrongTagErr("Block")
	}
	return &Block{
		AckID:     binary.LittleEndian.Uint64(data[1:9]),
		ProductID: binary.LittleEndian.Uint64(data[9:17]),
		Price:     int64(binary.LittleEndian.Uint64(data[17:25])),
		Quantity:  binary.LittleEndian.Uint32(data[25:29]),
	}, nil
}

// DecodePricefeedBody dispatches on the sub-type byte to the PF-family
// variant it names: Trade ('T'), Level ('L'), Book ('B'), or Block ('X').
func DecodePricefeedBody(data []byte) (Body, error) {
	if len(data) < 1 {
		return nil, shortBufferErr("pricefeed body")
	}
	switch data[0] {
	case 'T':
		return decodeTrade(data)
	case 'L':
		return decodeLevel(data)
	case 'B':
		return decodeBook(data)
	case 'X':
		return decodeBlock(data)
	default:
		return nil, wrongTagErr(fmt.Sprintf("pricefeed body type %q", data[0]))
	}
}

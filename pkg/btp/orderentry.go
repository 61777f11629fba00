package btp

import (
	"encoding/binary"
	"fmt"
)

// Open requests a new resting or immediate order. Sub-type byte 'O'.
type Open struct {
	OrderID   uint64
	ProductID uint64
	Side      Side
	Price     int64
	Quantity  uint32
	TIF       TimeInForce
}

func (o *Open) Encoding() BodyEncoding { return EncodingOrderEntry }

func (o *Open) Encode() []byte {
	buf := make([]byte, 31)
	buf[0] = 'O'
	binary.LittleEndian.PutUint64(buf[1:9], o.OrderID)
	binary.LittleEndian.PutUint64(buf[9:17], o.ProductID)
	buf[17] = byte(o.Side)
	binary.LittleEndian.PutUint64(buf[18:26], uint64(o.Price))
	binary.LittleEndian.PutUint32(buf[26:30], o.Quantity)
	buf[30] = byte(o.TIF)
	return buf
}

func decodeOpen(data []byte) (*Open, error) {
	if len(data) < 31 {
		return nil, shortBufferErr("Open")
	}
	if data[0] != 'O' {
		return nil, wrongTagErr("Open")
	}
	side := Side(data[17])
	if !side.valid() {
		return nil, unknownEnumErr("Open.side")
	}
	tif := TimeInForce(data[30])
	if !tif.valid() {
		return nil, unknownEnumErr("Open.time_in_force")
	}
	return &Open{
		OrderID:   binary.LittleEndian.Uint64(data[1:9]),
		ProductID: binary.LittleEndian.Uint64(data[9:17]),
		Side:      side,
		Price:     int64(binary.LittleEndian.Uint64(data[18:26])),
		Quantity:  binary.LittleEndian.Uint32(data[26:30]),
		TIF:       tif,
	}, nil
}

// Modify changes the price and/or quantity of a resting order. Sub-type
// byte 'M'.
type Modify struct {
	OrderID  uint64
	ModifyID uint64
	Price    int64
	Quantity uint32
}

func (m *Modify) Encoding() BodyEncoding { return EncodingOrderEntry }

func (m *Modify) Encode() []byte {
	buf := make([]byte, 29)
	buf[0] = 'M'
	binary.LittleEndian.PutUint64(buf[1:9], m.OrderID)
	binary.LittleEndian.PutUint64(buf[9:17], m.ModifyID)
	binary.LittleEndian.PutUint64(buf[17:25], uint64(m.Price))
	binary.LittleEndian.PutUint32(buf[25:29], m.Quantity)
	return buf
}

func decodeModify(data []byte) (*Modify, error) {
	if len(data) < 29 {
		return nil, shortBufferErr("Modify")
	}
	if data[0] != 'M' {
		return nil, wrongTagErr("Modify")
	}
	return &Modify{
		OrderID:  binary.LittleEndian.Uint64(data[1:9]),
		ModifyID: binary.LittleEndian.Uint64(data[9:17]),
		Price:    int64(binary.LittleEndian.Uint64(data[17:25])),
		Quantity: binary.LittleEndian.Uint32(data[25:29]),
	}, nil
}

// Ack confirms an Open or Modify was accepted. ModifyID is nil when absent
// (wire sentinel 0) — see spec.md §9 "Optional as sentinel". Sub-type byte
// 'A'.
type Ack struct {
	AckID    uint64
	OrderID  uint64
	ModifyID *uint64
}

func (a *Ack) Encoding() BodyEncoding { return EncodingOrderEntry }

func (a *Ack) Encode() []byte {
	buf := make([]byte, 25)
	buf[0] = 'A'
	binary.LittleEndian.PutUint64(buf[1:9], a.AckID)
	binary.LittleEndian.PutUint64(buf[9:17], a.OrderID)
	var modifyID uint64
	if a.ModifyID != nil {
		modifyID = *a.ModifyID
	}
	binary.LittleEndian.PutUint64(buf[17:25], modifyID)
	return buf
}

func decodeAck(data []byte) (*Ack, error) {
	if len(data) < 25 {
		return nil, shortBufferErr("Ack")
	}
	if data[0] != 'A' {
		return nil, wrongTagErr("Ack")
	}
	ack := &Ack{
		AckID:   binary.LittleEndian.Uint64(data[1:9]),
		OrderID: binary.LittleEndian.Uint64(data[9:17]),
	}
	if modifyID := binary.LittleEndian.Uint64(data[17:25]); modifyID != 0 {
		ack.ModifyID = &modifyID
	}
	return ack, nil
}

// Reject rejects an Open or Modify request. ModifyID is nil for an Open
// rejection. Sub-type byte 'R'.
type Reject struct {
	OrderID  uint64
	ModifyID *uint64
	Reason   RejectReason
}

func (r *Reject) Encoding() BodyEncoding { return EncodingOrderEntry }

func (r *Reject) Encode() []byte {
	buf := make([]byte, 18)
	buf[0] = 'R'
	binary.LittleEndian.PutUint64(buf[1:9], r.OrderID)
	var modifyID uint64
	if r.ModifyID != nil {
		modifyID = *r.ModifyID
	}
	binary.LittleEndian.PutUint64(buf[9:17], modifyID)
	buf[17] = byte(r.Reason)
	return buf
}

func decodeReject(data []byte) (*Reject, error) {
	if len(data) < 18 {
		return nil, shortBufferErr("Reject")
	}
	if data[0] != 'R' {
		return nil, wrongTagErr("Reject")
	}
	reason := RejectReason(data[17])
	if !reason.valid() {
		return nil, unknownEnumErr("Reject.reason")
	}
	rej := &Reject{
		OrderID: binary.LittleEndian.Uint64(data[1:9]),
		Reason:  reason,
	}
	if modifyID := binary.LittleEndian.Uint64(data[9:17]); modifyID != 0 {
		rej.ModifyID = &modifyID
	}
	return rej, nil
}

// Close reports that an order is no longer resting. Sub-type byte 'C'.
type Close struct {
	AckID       uint64
	OrderID     uint64
	CloseReason CloseReason
}

func (c *Close) Encoding() BodyEncoding { return EncodingOrderEntry }

func (c *Close) Encode() []byte {
	buf := make([]byte, 18)
	buf[0] = 'C'
	binary.LittleEndian.PutUint64(buf[1:9], c.AckID)
	binary.LittleEndian.PutUint64(buf[9:17], c.OrderID)
	buf[17] = byte(c.CloseReason)
	return buf
}

func decodeClose(data []byte) (*Close, error) {
	if len(data) < 18 {
		return nil, shortBufferErr("Close")
	}
	if data[0] != 'C' {
		return nil, wrongTagErr("Close")
	}
	reason := CloseReason(data[17])
	if !reason.valid() {
		return nil, unknownEnumErr("Close.close_reason")
	}
	return &Close{
		AckID:       binary.LittleEndian.Uint64(data[1:9]),
		OrderID:     binary.LittleEndian.Uint64(data[9:17]),
		CloseReason: reason,
	}, nil
}

// Fill reports a trade against a resting or incoming order. Price is a u32
// here, unlike the i64 price carried by Open/Trade/Level/Block — preserved
// verbatim per spec.md §9, not unified with the wider fields. Sub-type byte
// 'F'.
type Fill struct {
	AckID     uint64
	OrderID   uint64
	Price     uint32
	Quantity  uint32
	Liquidity Liquidity
}

func (f *Fill) Encoding() BodyEncoding { return EncodingOrderEntry }

func (f *Fill) Encode() []byte {
	buf := make([]byte, 26)
	buf[0] = 'F'
	binary.LittleEndian.PutUint64(buf[1:9], f.AckID)
	binary.LittleEndian.PutUint64(buf[9:17], f.OrderID)
	binary.LittleEndian.PutUint32(buf[17:21], f.Price)
	binary.LittleEndian.PutUint32(buf[21:25], f.Quantity)
	buf[25] = byte(f.Liquidity)
	return buf
}

func decodeFill(data []byte) (*Fill, error) {
	if len(data) < 26 {
		return nil, shortBufferErr("Fill")
	}
	if data[0] != 'F' {
		return nil, wrongTagErr("Fill")
	}
	liq := Liquidity(data[25])
	if !liq.valid() {
		return nil, unknownEnumErr("Fill.liquidity")
	}
	return &Fill{
		AckID:     binary.LittleEndian.Uint64(data[1:9]),
		OrderID:   binary.LittleEndian.Uint64(data[9:17]),
		Price:     binary.LittleEndian.Uint32(data[17:21]),
		Quantity:  binary.LittleEndian.Uint32(data[21:25]),
		Liquidity: liq,
	}, nil
}

// DecodeOrderEntryBody dispatches on the sub-type byte to the OE-family
// variant it names: Open ('O'), Modify ('M'), Ack ('A'), Reject ('R'),
// Close ('C'), or Fill ('F').
func DecodeOrderEntryBody(data []byte) (Body, error) {
	if len(data) < 1 {
		return nil, shortBufferErr("order entry body")
	}
	switch data[0] {
	case 'O':
		return decodeOpen(data)
	case 'M':
		return decodeModify(data)
	case 'A':
		return decodeAck(data)
	case 'R':
		return decodeReject(data)
	case 'C':
		return decodeClose(data)
	case 'F':
		return decodeFill(data)
	default:
		return nil, wrongTagErr(fmt.Sprintf("order entry body type %q", data[0]))
	}
}

package btp

import "encoding/binary"

// MarketStateUpdate reports a product's trading state. It carries no
// sub-type byte; the first body byte IS the state code itself.
type MarketStateUpdate struct {
	State     MarketState
	AckID     uint64
	ProductID uint64
}

func (m *MarketStateUpdate) Encoding() BodyEncoding { return EncodingMarketState }

func (m *MarketStateUpdate) Encode() []byte {
	buf := make([]byte, 17)
	buf[0] = byte(m.State)
	binary.LittleEndian.PutUint64(buf[1:9], m.AckID)
	binary.LittleEndian.PutUint64(buf[9:17], m.ProductID)
	return buf
}

// DecodeMarketStateUpdate parses a MarketStateUpdate body.
func DecodeMarketStateUpdate(data []byte) (*MarketStateUpdate, error) {
	if len(data) < 17 {
		return nil, shortBufferErr("MarketStateUpdate")
	}
	state := MarketState(data[0])
	if !state.valid() {
		return nil, unknownEnumErr("MarketStateUpdate.state")
	}
	return &MarketStateUpdate{
		State:     state,
		AckID:     binary.LittleEndian.Uint64(data[1:9]),
		ProductID: binary.LittleEndian.Uint64(data[9:17]),
	}, nil
}

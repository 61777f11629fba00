package btp

import "fmt"

// Message pairs a frame header with its decoded body.
type Message struct {
	Header Header
	Body   Body
}

// NewMessage builds a Message, computing body_length from the body's
// serialized form. sequenceID is ignored (forced to 0) for a Heartbeat body
// per spec.md §3 invariant 1.
func NewMessage(sequenceID uint32, body Body) Message {
	encoded := body.Encode()
	if body.Encoding() == EncodingHeartbeat {
		sequenceID = 0
	}
	return Message{
		Header: Header{
			SequenceID:   sequenceID,
			BodyEncoding: body.Encoding(),
			BodyLength:   uint16(len(encoded)),
		},
		Body: body,
	}
}

// DecodeBody dispatches on the header's body_encoding tag to the matching
// family decoder. Heartbeat bodies are always empty.
func DecodeBody(encoding BodyEncoding, data []byte) (Body, error) {
	switch encoding {
	case EncodingLogin:
		return DecodeLoginBody(data)
	case EncodingOrderEntry:
		return DecodeOrderEntryBody(data)
	case EncodingMarketState:
		return DecodeMarketStateUpdate(data)
	case EncodingHeartbeat:
		return DecodeHeartbeat(data)
	case EncodingDisconnect:
		return DecodeDisconnect(data)
	case EncodingPricefeed:
		return DecodePricefeedBody(data)
	default:
		return nil, unknownEnumErr(fmt.Sprintf("body_encoding %q", encoding.String()))
	}
}

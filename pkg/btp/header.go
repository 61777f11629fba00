package btp

import "encoding/binary"

// HeaderLen is the fixed size in bytes of every frame header.
const HeaderLen = 12

// ProtocolVersion is the only version this package understands.
const ProtocolVersion uint16 = 2

// MaxBodyLength is the largest body a frame can carry; body_length is a u16
// on the wire, so no frame exceeds HeaderLen+MaxBodyLength bytes.
const MaxBodyLength = 65535

// ProtocolID is the literal two-byte magic every frame begins with.
var ProtocolID = [2]byte{'B', 'T'}

// BodyEncoding is the two-byte ASCII tag identifying a frame's body family.
type BodyEncoding [2]byte

func (e BodyEncoding) String() string { return string(e[:]) }

// The six body encoding tags defined by the protocol.
var (
	EncodingLogin       = BodyEncoding{'L', 'G'}
	EncodingOrderEntry  = BodyEncoding{'O', 'E'}
	EncodingMarketState = BodyEncoding{'M', 'S'}
	EncodingHeartbeat   = BodyEncoding{'H', 'B'}
	EncodingDisconnect  = BodyEncoding{'D', 'N'}
	EncodingPricefeed   = BodyEncoding{'P', 'F'}
)

// Header is the 12-byte frame header: protocol_id, version, sequence_id,
// body_encoding, body_length.
type Header struct {
	SequenceID   uint32
	BodyEncoding BodyEncoding
	BodyLength   uint16
}

// Encode serializes the header to its fixed 12-byte wire form.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderLen)
	buf[0], buf[1] = ProtocolID[0], ProtocolID[1]
	binary.LittleEndian.PutUint16(buf[2:4], ProtocolVersion)
	binary.LittleEndian.PutUint32(buf[4:8], h.SequenceID)
	buf[8], buf[9] = h.BodyEncoding[0], h.BodyEncoding[1]
	binary.LittleEndian.PutUint16(buf[10:12], h.BodyLength)
	return buf
}

// DecodeHeader parses the first HeaderLen bytes of data into a Header,
// validating protocol_id and version.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderLen {
		return Header{}, shortBufferErr("header")
	}
	if data[0] != ProtocolID[0] || data[1] != ProtocolID[1] {
		return Header{}, badFrameErr("protocol_id")
	}
	version := binary.LittleEndian.Uint16(data[2:4])
	if version != ProtocolVersion {
		return Header{}, badFrameErr("version")
	}
	h := Header{
		SequenceID:   binary.LittleEndian.Uint32(data[4:8]),
		BodyEncoding: BodyEncoding{data[8], data[9]},
		BodyLength:   binary.LittleEndian.Uint16(data[10:12]),
	}
	return h, nil
}

package btp

import "encoding/binary"

// Disconnect is a normal (not erroneous) session termination notice. The
// exchange sends it before closing the connection; the handler receives it,
// then the session transitions to Closed. ExpectedSeq/ActualSeq are nil
// when the wire carries the sentinel 0 — see spec.md §9 "Optional as
// sentinel". The reason byte is numeric (spec.md §9 open question: some
// source copies attempt a string decode of this byte before enum lookup;
// the enum is numeric and that conversion is not reproduced here).
type Disconnect struct {
	Reason       DisconnectReason
	ExpectedSeq  *uint32
	ActualSeq    *uint32
}

func (d *Disconnect) Encoding() BodyEncoding { return EncodingDisconnect }

func (d *Disconnect) Encode() []byte {
	buf := make([]byte, 9)
	buf[0] = byte(d.Reason)
	var expected, actual uint32
	if d.ExpectedSeq != nil {
		expected = *d.ExpectedSeq
	}
	if d.ActualSeq != nil {
		actual = *d.ActualSeq
	}
	binary.LittleEndian.PutUint32(buf[1:5], expected)
	binary.LittleEndian.PutUint32(buf[5:9], actual)
	return buf
}

// DecodeDisconnect parses a Disconnect body.
func DecodeDisconnect(data []byte) (*Disconnect, error) {
	if len(data) < 9 {
		return nil, shortBufferErr("Disconnect")
	}
	reason := DisconnectReason(data[0])
	if !reason.valid() {
		return nil, unknownEnumErr("Disconnect.reason")
	}
	d := &Disconnect{Reason: reason}
	if expected := binary.LittleEndian.Uint32(data[1:5]); expected != 0 {
		d.ExpectedSeq = &expected
	}
	if actual := binary.LittleEndian.Uint32(data[5:9]); actual != 0 {
		d.ActualSeq = &actual
	}
	return d, nil
}

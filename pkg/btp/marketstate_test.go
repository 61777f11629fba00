package btp

import (
	"bytes"
	"testing"
)

func TestMarketStateUpdateRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []*MarketStateUpdate{
		{State: MarketStateOpen, AckID: 1, ProductID: 2},
		{State: MarketStateHalt, AckID: 3, ProductID: 4},
		{State: MarketStateClosed, AckID: 5, ProductID: 6},
	}
	for _, m := range cases {
		encoded := m.Encode()
		decoded, err := DecodeMarketStateUpdate(encoded)
		if err != nil {
			t.Fatalf("DecodeMarketStateUpdate(%+v) error = %v", m, err)
		}
		if *decoded != *m {
			t.Fatalf("decode(encode(%+v)) = %+v", m, decoded)
		}
		if !bytes.Equal(decoded.Encode(), encoded) {
			t.Fatalf("re-encode mismatch for %+v", m)
		}
	}
}

func TestMarketStateUpdateUnknownState(t *testing.T) {
	t.Parallel()
	data := []byte{'X', 1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}
	_, err := DecodeMarketStateUpdate(data)
	wantParseErrorKind(t, err, UnknownEnum)
}

package hostexports

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainindex/corert/chain"
)

func TestPackUnpackValueRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		typeName string
		value    chain.Value
	}{
		{"address", "address", chain.NewAddress(common.HexToAddress("0x00000000000000000000000000000000000001"))},
		{"bool true", "bool", chain.NewBoolValue(true)},
		{"string", "string", chain.NewStringValue("mapping handler")},
		{"bytes", "bytes", chain.NewBytesValue([]byte{0xde, 0xad, 0xbe, 0xef})},
		{"int256 negative", "int256", chain.NewInt(big.NewInt(-42))},
		{"uint256", "uint256", chain.NewUint(big.NewInt(1_000_000))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			packed, err := packValue(tc.value)
			if err != nil {
				t.Fatalf("packValue: %v", err)
			}
			got, err := unpackValue(tc.typeName, packed)
			if err != nil {
				t.Fatalf("unpackValue: %v", err)
			}
			if got.Kind != tc.value.Kind {
				t.Fatalf("kind mismatch: got %v, want %v", got.Kind, tc.value.Kind)
			}
		})
	}
}

func TestPackValueArrayConcatenatesElements(t *testing.T) {
	arr := chain.NewArray([]chain.Value{
		chain.NewUint(big.NewInt(1)),
		chain.NewUint(big.NewInt(2)),
	})
	packed, err := packValue(arr)
	if err != nil {
		t.Fatalf("packValue: %v", err)
	}
	if len(packed) != 64 {
		t.Fatalf("expected 2 concatenated 32-byte words, got %d bytes", len(packed))
	}
}

func TestPackFixedBytesRejectsOutOfRange(t *testing.T) {
	if _, err := packFixedBytes(nil); err == nil {
		t.Fatal("expected error for empty fixed bytes")
	}
	if _, err := packFixedBytes(make([]byte, 33)); err == nil {
		t.Fatal("expected error for fixed bytes longer than 32")
	}
}

func TestPackFixedBytesRoundTrip(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03}
	packed, err := packFixedBytes(b)
	if err != nil {
		t.Fatalf("packFixedBytes: %v", err)
	}
	got, err := unpackValue("bytes3", packed)
	if err != nil {
		t.Fatalf("unpackValue: %v", err)
	}
	if got.Kind != chain.KindFixedBytes {
		t.Fatalf("got kind %v, want KindFixedBytes", got.Kind)
	}
	if string(got.FixedBytes) != string(b) {
		t.Fatalf("got %x, want %x", got.FixedBytes, b)
	}
}

func TestUnpackValueRejectsUnknownType(t *testing.T) {
	if _, err := unpackValue("not-a-real-type", nil); err == nil {
		t.Fatal("expected error for unparseable abi type string")
	}
}

package asc

import (
	"unicode/utf16"

	"github.com/chainindex/corert/errs"
)

// EncodeString converts a Go string to the raw UTF-16LE content bytes an
// AssemblyScript `string` stores (spec section 4.1: "UTF-16LE strings").
func EncodeString(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		out[2*i] = byte(u)
		out[2*i+1] = byte(u >> 8)
	}
	return out
}

// DecodeString converts raw UTF-16LE content bytes back to a Go string.
func DecodeString(content []byte) (string, error) {
	if len(content)%2 != 0 {
		return "", errs.NewHeapErr(errs.SizeNotFit, "string content length %d is not a multiple of 2", len(content))
	}
	units := make([]uint16, len(content)/2)
	for i := range units {
		units[i] = uint16(content[2*i]) | uint16(content[2*i+1])<<8
	}
	return string(utf16.Decode(units)), nil
}

// NewString allocates s as an AssemblyScript string and returns its pointer.
func NewString(heap Heap, s string) (Ptr[string], error) {
	addr, err := AllocGrowableObj(heap, TypeString, EncodeString(s))
	if err != nil {
		return Ptr[string]{}, err
	}
	return NewPtr[string](addr), nil
}

// ReadString reads the string at ptr.
func ReadString(heap Heap, ptr Ptr[string]) (string, error) {
	if err := ptr.CheckNotNull(); err != nil {
		return "", err
	}
	content, err := ReadObj(heap, ptr.Addr())
	if err != nil {
		return "", err
	}
	return DecodeString(content)
}

package asc

import (
	"encoding/binary"

	"github.com/chainindex/corert/errs"
)

// HeaderSize is the size, in bytes, of the AssemblyScript common object
// header (api-version >= 0.0.5): mm_info, gc_info, gc_info2, rt_id, rt_size,
// each a little-endian u32.
const HeaderSize = 20

// sizeOfRtSize is the width of the rt_size field alone; ReadLen subtracts
// this from an object pointer to find where rt_size is stored.
const sizeOfRtSize = 4

// Header is the decoded form of an AssemblyScript object header.
type Header struct {
	MMInfo  uint32
	GCInfo  uint32
	GCInfo2 uint32
	RtID    uint32
	RtSize  uint32
}

// EncodeHeader builds the 20-byte header for an object of the given runtime
// type id whose payload occupies contentLength bytes before padding and
// fullLength bytes after 16-byte alignment padding.
func EncodeHeader(rtID TypeID, contentLength, fullLength int) []byte {
	h := make([]byte, HeaderSize)
	mmInfo := uint32(sizeOfRtSize*4 + fullLength)
	binary.LittleEndian.PutUint32(h[0:4], mmInfo)
	binary.LittleEndian.PutUint32(h[4:8], 0)
	binary.LittleEndian.PutUint32(h[8:12], 0)
	binary.LittleEndian.PutUint32(h[12:16], uint32(rtID))
	binary.LittleEndian.PutUint32(h[16:20], uint32(contentLength))
	return h
}

// DecodeHeader parses a 20-byte header starting at the given slice.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, errs.NewHeapErr(errs.HeapOOB, "header requires %d bytes, got %d", HeaderSize, len(b))
	}
	return Header{
		MMInfo:  binary.LittleEndian.Uint32(b[0:4]),
		GCInfo:  binary.LittleEndian.Uint32(b[4:8]),
		GCInfo2: binary.LittleEndian.Uint32(b[8:12]),
		RtID:    binary.LittleEndian.Uint32(b[12:16]),
		RtSize:  binary.LittleEndian.Uint32(b[16:20]),
	}, nil
}

// PaddingTo16 returns the number of zero bytes needed after a HeaderSize +
// contentLength allocation so the next object starts 16-byte aligned,
// matching AssemblyScript's allocator.
func PaddingTo16(contentLength int) int {
	return (16 - (HeaderSize+contentLength)%16) % 16
}

// NextPowerOfTwo rounds n up to the next power of two, matching
// AssemblyScript's ArrayBuffer capacity growth rule. n == 0 rounds to 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Package compactarray implements Solana's compact-u16 variable-length
// integer encoding (short-vec) and the length-prefixed "compact array"
// built on top of it.
package compactarray

import (
	"fmt"
)

// MaxValue is the largest integer representable in the common 3-byte
// compact-u16 case (2^21 - 1). Larger values still encode correctly —
// compact-u16 has no fixed byte ceiling, only as many continuation
// bytes as the value needs — this constant just marks where a 3-byte
// account/instruction count stops being enough.
const MaxValue = 0x1FFFFF

// maxEncodedBytes bounds DecodeU16's continuation-byte loop so a
// malformed all-continuation-bit prefix can't spin forever; 10 bytes
// covers 70 bits, far beyond anything a real value needs.
const maxEncodedBytes = 10

// EncodeU16 appends the compact-u16 encoding of n to dst and returns the
// extended slice. n must be non-negative; there is no upper bound.
func EncodeU16(dst []byte, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("compactarray: value %d is negative", n)
	}

	for {
		b := byte(n & 0x7F)
		n >>= 7
		if n == 0 {
			return append(dst, b), nil
		}
		dst = append(dst, b|0x80)
	}
}

// DecodeU16 reads a compact-u16 from the front of b, returning the decoded
// value and the number of bytes consumed.
func DecodeU16(b []byte) (value int, consumed int, err error) {
	var result int
	for i := 0; i < maxEncodedBytes; i++ {
		if i >= len(b) {
			return 0, 0, fmt.Errorf("compactarray: truncated compact-u16 prefix")
		}
		cur := b[i]
		result |= int(cur&0x7F) << (7 * i)
		if cur&0x80 == 0 {
			return result, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("compactarray: compact-u16 prefix exceeds %d bytes", maxEncodedBytes)
}

// EncodeArray appends a compact-u16 count followed by the concatenation of
// items (each already serialized to bytes) to dst.
func EncodeArray(dst []byte, items [][]byte) ([]byte, error) {
	dst, err := EncodeU16(dst, len(items))
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		dst = append(dst, item...)
	}
	return dst, nil
}

// DecodeArray reads a compact-u16 count followed by count items of
// itemSize bytes each from the front of b. It returns the decoded items
// and the number of bytes consumed.
func DecodeArray(b []byte, itemSize int) (items [][]byte, consumed int, err error) {
	count, n, err := DecodeU16(b)
	if err != nil {
		return nil, 0, err
	}
	consumed = n

	items = make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		start := consumed
		end := start + itemSize
		if end > len(b) {
			return nil, 0, fmt.Errorf("compactarray: truncated array payload at item %d", i)
		}
		items = append(items, b[start:end])
		consumed = end
	}
	return items, consumed, nil
}

// DecodeBytes reads a compact-u16 length followed by that many raw bytes
// (used for instruction data, where the item size is 1).
func DecodeBytes(b []byte) (data []byte, consumed int, err error) {
	length, n, err := DecodeU16(b)
	if err != nil {
		return nil, 0, err
	}
	consumed = n
	end := consumed + length
	if end > len(b) {
		return nil, 0, fmt.Errorf("compactarray: truncated byte payload")
	}
	data = b[consumed:end]
	consumed = end
	return data, consumed, nil
}

// EncodeBytes appends a compact-u16 length followed by data to dst.
func EncodeBytes(dst []byte, data []byte) ([]byte, error) {
	dst, err := EncodeU16(dst, len(data))
	if err != nil {
		return nil, err
	}
	return append(dst, data...), nil
}

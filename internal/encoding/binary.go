// Package encoding holds the length-prefix framing the pager uses for its
// header region — the one piece of on-disk layout that sits outside the
// pluggable Codec, since it has to be readable before a codec has even
// been chosen for the bytes that follow it.
package encoding

import "io"

// WritePrefixedBlock frames payload as a 1-byte size-of-size, followed by
// that many little-endian length bytes, followed by payload itself. This
// is the header-region framing the pager uses so a header of unknown
// size can still be located and read back without a fixed-size slot.
func WritePrefixedBlock(w io.Writer, payload []byte) error {
	n := uint64(len(payload))
	sizeOfSize := byte(1)
	for sizeOfSize < 8 && n>>(8*sizeOfSize) != 0 {
		sizeOfSize++
	}
	if _, err := w.Write([]byte{sizeOfSize}); err != nil {
		return err
	}
	lenBuf := make([]byte, sizeOfSize)
	v := n
	for i := byte(0); i < sizeOfSize; i++ {
		lenBuf[i] = byte(v & 0xff)
		v >>= 8
	}
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadPrefixedBlock reads back a block written by WritePrefixedBlock.
func ReadPrefixedBlock(r io.Reader) ([]byte, error) {
	sizeBuf := make([]byte, 1)
	if _, err := io.ReadFull(r, sizeBuf); err != nil {
		return nil, err
	}
	sizeOfSize := sizeBuf[0]
	lenBuf := make([]byte, sizeOfSize)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, err
	}
	var n uint64
	for i := int(sizeOfSize) - 1; i >= 0; i-- {
		n = (n << 8) | uint64(lenBuf[i])
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

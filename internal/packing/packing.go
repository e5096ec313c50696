// Package packing stores an assignment vector in the fewest whole bits per
// element, optionally protected by an error correcting code.
package packing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/yyyoichi/bitstream-go"
)

var (
	ErrGroupOutOfRange = errors.New("group index out of range")
	ErrCorrupt         = errors.New("packed assignment is corrupt")
)

// Packed is an encoded assignment vector.
type Packed struct {
	// Data holds Bits encoded bits, least significant bit of each word first.
	Data []uint64
	Bits int
	// Count is the number of elements, Width the bits used per element.
	Count int
	Width int
	ECC   bool
}

// Width returns the number of bits needed to store a group index below
// groups, at least one.
func Width(groups int) int {
	return max(1, bits.Len(uint(max(groups-1, 0))))
}

// Pack encodes assign, whose entries must lie in [0, groups). By default the
// stream is Golay protected; pass WithoutECC to store raw bits.
func Pack(assign []int, groups int, opts ...Option) (*Packed, error) {
	c := newCodec(opts)
	width := Width(groups)

	w := bitstream.NewBitWriter[uint64](0, 0)
	for i, g := range assign {
		if g < 0 || g >= groups {
			return nil, fmt.Errorf("%w: element %d in group %d of %d", ErrGroupOutOfRange, i, g, groups)
		}
		for b := width - 1; b >= 0; b-- {
			w.WriteBool(g>>b&1 == 1)
		}
	}
	size := len(assign) * width
	data, n, err := c.c.encode(w.Data(), size)
	if err != nil {
		return nil, err
	}
	return &Packed{
		Data:  data,
		Bits:  n,
		Count: len(assign),
		Width: width,
		ECC:   c.c.ecc(),
	}, nil
}

// Unpack decodes p. The option must match the one p was packed with;
// p.ECC is checked against it.
func Unpack(p *Packed, opts ...Option) ([]int, error) {
	c := newCodec(opts)
	if p.ECC != c.c.ecc() {
		return nil, fmt.Errorf("%w: ecc flag %t does not match decoder", ErrCorrupt, p.ECC)
	}
	size := p.Count * p.Width
	if want := c.c.encodedLen(size); p.Bits != want || len(p.Data)*64 < want {
		return nil, fmt.Errorf("%w: %d bits stored, %d expected", ErrCorrupt, p.Bits, want)
	}
	if size == 0 {
		return make([]int, p.Count), nil
	}
	r, err := c.c.decode(p.Data, size)
	if err != nil {
		return nil, errors.Join(ErrCorrupt, err)
	}

	assign := make([]int, p.Count)
	for i := range assign {
		var g int
		for b := range p.Width {
			bit, _ := r.ReadBitAt(i*p.Width + b)
			g <<= 1
			if bit {
				g |= 1
			}
		}
		assign[i] = g
	}
	return assign, nil
}

// Bytes serialises p.Data as little endian words.
func (p *Packed) Bytes() []byte {
	buf := make([]byte, 0, len(p.Data)*8)
	for _, v := range p.Data {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}
	return buf
}

// Words is the inverse of Bytes.
func Words(b []byte) ([]uint64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of words", ErrCorrupt, len(b))
	}
	words := make([]uint64, len(b)/8)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	return words, nil
}

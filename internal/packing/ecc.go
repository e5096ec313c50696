package packing

import (
	"fmt"
	"math/rand"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/golay"
)

var _ coder = (*interleavedGolay)(nil)

type interleavedGolay int64

func (ig interleavedGolay) encode(data []uint64, size int) ([]uint64, int, error) {
	if size == 0 {
		return nil, 0, nil
	}
	var encoded []uint64
	enc := golay.NewEncoder(&encoded)
	if err := enc.Encode(data, size); err != nil {
		return nil, 0, fmt.Errorf("golay encode: %w", err)
	}
	encodedLen := enc.Bits()

	index := ig.permutation(encodedLen)
	r := bitstream.NewBitReader(encoded, 0, 0)
	w := bitstream.NewBitWriter[uint64](0, 0)
	for i := range encodedLen {
		bit, _ := r.ReadBitAt(index[i])
		w.WriteBitAt(i, bit)
	}
	return w.Data(), encodedLen, nil
}

func (ig interleavedGolay) decode(data []uint64, size int) (*bitstream.BitReader[uint64], error) {
	encodedLen := ig.encodedLen(size)
	index := ig.permutation(encodedLen)

	r := bitstream.NewBitReader(data, 0, 0)
	w := bitstream.NewBitWriter[uint64](0, 0)
	for i := range encodedLen {
		bit, _ := r.ReadBitAt(i)
		w.WriteBitAt(index[i], bit)
	}

	var decoded []uint64
	dec := golay.NewDecoder(w.Data(), w.Bits())
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("golay decode: %w", err)
	}
	out := bitstream.NewBitReader(decoded, 0, 0)
	out.SetBits(size)
	return out, nil
}

func (ig interleavedGolay) encodedLen(size int) int {
	if size == 0 {
		return 0
	}
	return golay.EncodedBits(size)
}

func (ig interleavedGolay) ecc() bool { return true }

func (ig interleavedGolay) permutation(length int) []int {
	index := make([]int, length)
	for i := range index {
		index[i] = i
	}
	rd := rand.New(rand.NewSource(int64(ig)))
	rd.Shuffle(length, func(i, j int) {
		index[i], index[j] = index[j], index[i]
	})
	return index
}

var _ coder = (*plain)(nil)

type plain struct{}

func (plain) encode(data []uint64, size int) ([]uint64, int, error) {
	return data, size, nil
}

func (plain) decode(data []uint64, size int) (*bitstream.BitReader[uint64], error) {
	r := bitstream.NewBitReader(data, 0, 0)
	r.SetBits(size)
	return r, nil
}

func (plain) encodedLen(size int) int { return size }

func (plain) ecc() bool { return false }

package packing

import "github.com/yyyoichi/bitstream-go"

// DefaultInterleaveSeed seeds the bit permutation applied by WithGolay when
// no seed is given.
var DefaultInterleaveSeed int64 = 1234567890

type (
	// Option selects whether the packed stream carries an error correcting
	// code.
	Option func(*codec)
	codec  struct {
		c coder
	}
	coder interface {
		encode(data []uint64, size int) ([]uint64, int, error)
		decode(data []uint64, size int) (*bitstream.BitReader[uint64], error)
		encodedLen(size int) int
		ecc() bool
	}
)

// WithoutECC stores the packed bits as they are.
func WithoutECC() Option {
	return func(c *codec) {
		c.c = plain{}
	}
}

// WithGolay protects the packed bits with a Golay(24,12) code. The encoded
// bits are permuted with a permutation derived from seed so that a burst of
// damaged bits spreads over many code words.
func WithGolay(seed int64) Option {
	return func(c *codec) {
		c.c = interleavedGolay(seed)
	}
}

func newCodec(opts []Option) codec {
	c := codec{c: interleavedGolay(DefaultInterleaveSeed)}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

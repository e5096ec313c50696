package parallel

// Block is a half-open index range [start, end).
type Block [2]int

func NewBlock(start, end int) Block {
	if end < start {
		end = start
	}
	return Block{start, end}
}

func (b Block) Start() int {
	return b[0]
}

func (b Block) End() int {
	return b[1]
}

func (b Block) Len() int {
	return b[1] - b[0]
}

func (b Block) IsZero() bool {
	return b.Len() <= 0
}

// Split divides [0, n) into at most parts contiguous blocks.
// Block lengths differ by at most one and earlier blocks take the remainder.
// It returns nil when n is not positive.
func Split(n, parts int) []Block {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	var (
		blocks    = make([]Block, parts)
		size, rem = n / parts, n % parts
		start     int
	)
	for at := range parts {
		end := start + size
		if at < rem {
			end++
		}
		blocks[at] = NewBlock(start, end)
		start = end
	}
	return blocks
}

// Package dataset reads and writes the two whitespace-separated input tables.
//
// The element file starts with the element count n, followed by n rows of
// feature values. The disease file holds n rows of disease risks and no
// header. Line breaks carry no meaning; values are read in row-major order.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/yyyoichi/gengroups/internal/groups"
)

var (
	ErrShortTable = errors.New("table ended before all values were read")
	ErrCount      = errors.New("invalid element count")
)

// Tables is a loaded pair of element and disease tables with equal row counts.
type Tables struct {
	Elements [][]float64
	Diseases [][]float64
}

// Options describe the expected table shape.
type Options struct {
	Features int
	Diseases int
	// Limit overrides the count declared in the element file when positive.
	// It must not exceed the declared count.
	Limit int
	// Capacity rejects populations larger than it when positive.
	Capacity int
}

// Load reads the element file and then the disease file.
func Load(elementPath, diseasePath string, opts Options) (*Tables, error) {
	ef, err := os.Open(elementPath)
	if err != nil {
		return nil, fmt.Errorf("open element file: %w", err)
	}
	defer ef.Close()
	elements, err := ReadElements(ef, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", elementPath, err)
	}

	df, err := os.Open(diseasePath)
	if err != nil {
		return nil, fmt.Errorf("open disease file: %w", err)
	}
	defer df.Close()
	diseases, err := ReadTable(df, len(elements), opts.Diseases)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", diseasePath, err)
	}
	return &Tables{Elements: elements, Diseases: diseases}, nil
}

// ReadElements reads the element count and then count rows of opts.Features
// values. Values after the last requested row are ignored.
func ReadElements(r io.Reader, opts Options) ([][]float64, error) {
	s := newScanner(r)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing element count", ErrShortTable)
	}
	n, err := strconv.Atoi(s.Text())
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %q", ErrCount, s.Text())
	}
	if opts.Limit > 0 {
		if opts.Limit > n {
			return nil, fmt.Errorf("%w: override %d exceeds the %d elements in the file", ErrCount, opts.Limit, n)
		}
		n = opts.Limit
	}
	if opts.Capacity > 0 && n > opts.Capacity {
		return nil, fmt.Errorf("%w: %d elements, capacity %d", groups.ErrCapacityExceeded, n, opts.Capacity)
	}
	return readRows(s, n, opts.Features)
}

// ReadTable reads rows x cols values.
func ReadTable(r io.Reader, rows, cols int) ([][]float64, error) {
	return readRows(newScanner(r), rows, cols)
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return s
}

func readRows(s *bufio.Scanner, rows, cols int) ([][]float64, error) {
	var (
		table = make([][]float64, rows)
		flat  = make([]float64, rows*cols)
	)
	for i := range table {
		row := flat[i*cols : (i+1)*cols : (i+1)*cols]
		for j := range row {
			if !s.Scan() {
				if err := s.Err(); err != nil {
					return nil, err
				}
				return nil, fmt.Errorf("%w: row %d of %d, column %d", ErrShortTable, i, rows, j)
			}
			v, err := strconv.ParseFloat(s.Text(), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			row[j] = v
		}
		table[i] = row
	}
	return table, nil
}

// WriteElements writes the element count followed by one row per line.
func WriteElements(w io.Writer, elements [][]float64) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, len(elements)); err != nil {
		return err
	}
	if err := writeRows(bw, elements); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteTable writes one row per line without a header.
func WriteTable(w io.Writer, table [][]float64) error {
	bw := bufio.NewWriter(w)
	if err := writeRows(bw, table); err != nil {
		return err
	}
	return bw.Flush()
}

func writeRows(bw *bufio.Writer, table [][]float64) error {
	var buf []byte
	for _, row := range table {
		buf = buf[:0]
		for j, v := range row {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, v, 'f', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

package dataset

import "math/rand"

// Generate builds n synthetic elements scattered around a few random
// centres in [0, 100) per feature, and uniform disease risks in [0, 1).
// Values are truncated to three decimals. The output depends only on seed.
// Negative sizes are treated as zero.
func Generate(seed int64, n, features, diseases int) *Tables {
	n, features, diseases = max(n, 0), max(features, 0), max(diseases, 0)
	var (
		rd      = rand.New(rand.NewSource(seed))
		centres = make([][]float64, max(1, min(n, 16)))
		t       = &Tables{
			Elements: make([][]float64, n),
			Diseases: make([][]float64, n),
		}
	)
	for c := range centres {
		centres[c] = make([]float64, features)
		for k := range centres[c] {
			centres[c][k] = rd.Float64() * 100
		}
	}
	for i := range n {
		centre := centres[rd.Intn(len(centres))]
		row := make([]float64, features)
		for k := range row {
			v := centre[k] + rd.NormFloat64()*5
			row[k] = trunc3(min(max(v, 0), 99.999))
		}
		t.Elements[i] = row

		risk := make([]float64, diseases)
		for j := range risk {
			risk[j] = trunc3(rd.Float64())
		}
		t.Diseases[i] = risk
	}
	return t
}

func trunc3(v float64) float64 {
	return float64(int64(v*1000)) / 1000
}

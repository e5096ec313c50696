package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/gengroups"
	"gopkg.in/yaml.v3"
)

func sampleResult() *gengroups.Result {
	return &gengroups.Result{
		Centroids:   [][]float64{{0, 0.5}, {10, 10.5}, {3, 3}},
		Assignment:  []int{0, 0, 1, 1},
		Sizes:       []int{2, 2, 0},
		Compactness: []float64{1, 1.5, 0},
		Diseases: []gengroups.DiseaseStats{
			{Max: 0.8, MaxGroup: 1, Min: 0.3, MinGroup: 0},
			{Max: math.Inf(-1), MaxGroup: gengroups.NoGroup, Min: 0.5, MinGroup: 0},
		},
		Iterations: 2,
		State:      gengroups.Converged,
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"text": Text, "YAML": YAML, "Json": JSON, "html": HTML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), Text))
	out := buf.String()

	assert.Contains(t, out, "  0.000  0.500\n 10.000 10.500\n")
	assert.Contains(t, out, "     2     2     0\n")
	assert.Contains(t, out, "     1.00     1.50     0.00\n")
	assert.Contains(t, out, "   0     0.80 -  1      0.30 -  0\n")
	assert.Contains(t, out, "   1     -Inf - -1      0.50 -  0\n")
}

func TestWrite_TextRowsOfTen(t *testing.T) {
	r := sampleResult()
	r.Sizes = make([]int, 23)
	r.Compactness = make([]float64, 23)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, Text))

	var sizeRows int
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "     0") && !strings.Contains(line, ".") {
			sizeRows++
			assert.LessOrEqual(t, len(line), 60)
		}
	}
	assert.Equal(t, 3, sizeRows)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), JSON))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "converged", doc.State)
	assert.Equal(t, 2, doc.Iterations)
	require.Len(t, doc.Groups, 3)
	assert.Equal(t, []float64{10, 10.5}, doc.Groups[1].Centroid)
	assert.Equal(t, 1.5, doc.Groups[1].Compactness)
	require.Len(t, doc.Diseases, 2)
	assert.Equal(t, &Extreme{Median: 0.8, Group: 1}, doc.Diseases[0].Max)
	assert.Nil(t, doc.Diseases[1].Max)
	assert.Equal(t, &Extreme{Median: 0.5, Group: 0}, doc.Diseases[1].Min)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), YAML))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, NewDocument(sampleResult()), &doc)
}

func TestWrite_HTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), HTML))
	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Group size and compactness")
	assert.Contains(t, out, "group 1: 1.5000")
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, sampleResult(), Format("csv")))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "Number of iterations: 2 (converged)")
	assert.Contains(t, out, "z 0 --   0.0  0.5")
	assert.NotContains(t, out, "z 1 --")
	assert.Contains(t, out, "tightest group 0: 1.0000 (2 elements)")
	assert.Contains(t, out, "loosest group  1: 1.5000 (2 elements)")
}

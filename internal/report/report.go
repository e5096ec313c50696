// Package report renders a clustering result as a results file or a short
// console summary.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/yyyoichi/gengroups"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	Text Format = "text"
	YAML Format = "yaml"
	JSON Format = "json"
	// HTML is a chart page of group sizes and compactness only.
	HTML Format = "html"
)

// ParseFormat accepts text, yaml, json or html in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, YAML, JSON, HTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Write renders r in format f.
func Write(w io.Writer, r *gengroups.Result, f Format) error {
	switch f {
	case Text:
		return writeText(w, r)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(r)); err != nil {
			return err
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(r))
	case HTML:
		return writeHTML(w, r)
	}
	return fmt.Errorf("unknown report format %q", f)
}

// perRow is how many sizes or compactness values share one text line.
const perRow = 10

func writeText(w io.Writer, r *gengroups.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, " Centroids of groups \n\n")
	for _, c := range r.Centroids {
		for _, v := range c {
			fmt.Fprintf(bw, "%7.3f", v)
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprint(bw, "\n >> Size of the groups \n\n")
	writeRows(bw, len(r.Sizes), func(i int) string { return fmt.Sprintf("%6d", r.Sizes[i]) })

	fmt.Fprint(bw, "\n >> Group compactness \n\n")
	writeRows(bw, len(r.Compactness), func(i int) string { return fmt.Sprintf("%9.2f", r.Compactness[i]) })

	fmt.Fprint(bw, "\n\n Analysis of diseases (medians)\n\n")
	fmt.Fprint(bw, "\n Dise.  M_max - Group   M_min - Group")
	fmt.Fprint(bw, "\n ==================================\n")
	for i, d := range r.Diseases {
		fmt.Fprintf(bw, "  %2d     %4.2f - %2d      %4.2f - %2d\n", i, d.Max, d.MaxGroup, d.Min, d.MinGroup)
	}
	return bw.Flush()
}

func writeRows(w io.Writer, n int, cell func(i int) string) {
	for i := 0; i < n; i += perRow {
		for j := i; j < min(i+perRow, n); j++ {
			io.WriteString(w, cell(j))
		}
		io.WriteString(w, "\n")
	}
}

// Document is the structured form of a result used by the YAML and JSON
// formats.
type Document struct {
	State      string    `json:"state" yaml:"state"`
	Iterations int       `json:"iterations" yaml:"iterations"`
	Groups     []Group   `json:"groups" yaml:"groups"`
	Diseases   []Disease `json:"diseases" yaml:"diseases"`
}

type Group struct {
	ID          int       `json:"id" yaml:"id"`
	Size        int       `json:"size" yaml:"size"`
	Compactness float64   `json:"compactness" yaml:"compactness"`
	Centroid    []float64 `json:"centroid" yaml:"centroid,flow"`
}

// Disease holds the extremes of one disease. An extreme that no group
// claimed is omitted.
type Disease struct {
	ID  int      `json:"id" yaml:"id"`
	Max *Extreme `json:"max,omitempty" yaml:"max,omitempty"`
	Min *Extreme `json:"min,omitempty" yaml:"min,omitempty"`
}

type Extreme struct {
	Median float64 `json:"median" yaml:"median"`
	Group  int     `json:"group" yaml:"group"`
}

func NewDocument(r *gengroups.Result) *Document {
	doc := &Document{
		State:      r.State.String(),
		Iterations: r.Iterations,
		Groups:     make([]Group, len(r.Centroids)),
		Diseases:   make([]Disease, len(r.Diseases)),
	}
	for i := range doc.Groups {
		g := Group{ID: i, Centroid: r.Centroids[i]}
		if i < len(r.Sizes) {
			g.Size = r.Sizes[i]
		}
		if i < len(r.Compactness) {
			g.Compactness = r.Compactness[i]
		}
		doc.Groups[i] = g
	}
	for i, d := range r.Diseases {
		doc.Diseases[i] = Disease{ID: i}
		if d.MaxGroup != gengroups.NoGroup {
			doc.Diseases[i].Max = &Extreme{Median: d.Max, Group: d.MaxGroup}
		}
		if d.MinGroup != gengroups.NoGroup {
			doc.Diseases[i].Min = &Extreme{Median: d.Min, Group: d.MinGroup}
		}
	}
	return doc
}

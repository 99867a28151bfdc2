// Package gwt reads and writes the GWT text weights format described in
// §6: a header line naming the observation count and layer/variable
// names, followed by one line per directed edge. Grounded on
// GwtWeight.h's weighted-neighbor-list model, adapted to Go's
// bufio.Scanner/io.Writer idiom in place of the original's file-pointer
// parsing.
package gwt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/geoda-core/internal/graph"
)

const weightPrecision = 9

// Write serializes g to w in GWT text format. layerName is quoted in
// the header if it contains whitespace.
func Write(w io.Writer, g *graph.Graph, layerName, variableName string) error {
	bw := bufio.NewWriter(w)

	layer := layerName
	if strings.ContainsAny(layer, " \t") {
		layer = fmt.Sprintf("%q", layer)
	}
	if _, err := fmt.Fprintf(bw, "0 %d %s %s\n", g.N(), layer, variableName); err != nil {
		return fmt.Errorf("gwt: write header: %w", err)
	}

	for i := 0; i < g.N(); i++ {
		for _, e := range g.Row(i) {
			if _, err := fmt.Fprintf(bw, "%d %d %.*f\n", i, e.Neighbor, weightPrecision, e.Weight); err != nil {
				return fmt.Errorf("gwt: write edge (%d,%d): %w", i, e.Neighbor, err)
			}
		}
	}
	return bw.Flush()
}

// Header is the parsed GWT header line.
type Header struct {
	NumObs       int
	LayerName    string
	VariableName string
}

// Read parses a GWT stream into a weighted graph plus its header. The
// returned graph is not binary: GWT always carries explicit weights,
// even when every weight happens to be 1.0.
func Read(r io.Reader) (*graph.Graph, Header, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, Header{}, fmt.Errorf("gwt: empty input")
	}
	header, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, Header{}, err
	}

	g := graph.New(header.NumObs, graph.KindCustom, false)
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, Header{}, fmt.Errorf("gwt: line %d: expected 3 fields, got %d", lineNo, len(fields))
		}
		i, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, Header{}, fmt.Errorf("gwt: line %d: bad observer id: %w", lineNo, err)
		}
		j, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, Header{}, fmt.Errorf("gwt: line %d: bad neighbor id: %w", lineNo, err)
		}
		w, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, Header{}, fmt.Errorf("gwt: line %d: bad weight: %w", lineNo, err)
		}
		if i == j {
			err = g.AddSelfLoop(i, w)
		} else {
			err = g.AddEdge(i, j, w)
		}
		if err != nil {
			return nil, Header{}, fmt.Errorf("gwt: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Header{}, fmt.Errorf("gwt: scan: %w", err)
	}
	g.Finalize("")
	return g, header, nil
}

func parseHeader(line string) (Header, error) {
	fields, err := splitHeaderFields(line)
	if err != nil {
		return Header{}, err
	}
	if len(fields) < 3 || fields[0] != "0" {
		return Header{}, fmt.Errorf("gwt: malformed header %q", line)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return Header{}, fmt.Errorf("gwt: bad observation count in header: %w", err)
	}
	h := Header{NumObs: n, LayerName: fields[2]}
	if len(fields) > 3 {
		h.VariableName = fields[3]
	}
	return h, nil
}

// splitHeaderFields splits on whitespace but keeps a double-quoted layer
// name (which may itself contain spaces) as a single field.
func splitHeaderFields(line string) ([]string, error) {
	var fields []string
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		if line[i] == '"' {
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("gwt: unterminated quoted field in header %q", line)
			}
			fields = append(fields, line[i+1:i+1+end])
			i = i + 1 + end + 1
			continue
		}
		start := i
		for i < len(line) && line[i] != ' ' {
			i++
		}
		fields = append(fields, line[start:i])
	}
	return fields, nil
}

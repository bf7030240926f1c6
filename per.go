package wmediumd

//
// Packet error rate model (spec.md §4.3, §4.5).
//
// Grounded on the teacher's linkfwdcore.go, which picked a delivery
// behavior from a small dispatch table keyed by a policy; here the table is
// indexed by (signal-dBm floor, rate index) and interpolated bilinearly
// rather than dispatched, since PER varies continuously with SNR.
//

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// noiseFloorDBm is the simulator's fixed thermal noise floor.
const noiseFloorDBm = -91.0

// ccaThresholdDBm is the clear-channel-assessment busy threshold: a
// received signal at or above this level marks the medium busy for
// carrier sense (spec.md §4.2).
const ccaThresholdDBm = -90.0

// PERTable maps (signal dBm, rate index) to a packet error probability in
// [0,1], via bilinear interpolation over a sparse grid of sampled points
// (spec.md §4.5: "a bilinear interpolation PER table indexed by signal dBm
// floor and rate index").
type PERTable struct {
	// signalLevels are the sampled signal-dBm grid points, ascending.
	signalLevels []int
	// rateIndices are the sampled rate-index grid points, ascending.
	rateIndices []int
	// per[i][j] is the packet error rate at (signalLevels[i], rateIndices[j]).
	per [][]float64
}

// NewPERTable builds a table from explicit grid points. levels and rates
// must each be sorted ascending and per must be len(levels) x len(rates).
func NewPERTable(levels []int, rates []int, per [][]float64) *PERTable {
	return &PERTable{signalLevels: levels, rateIndices: rates, per: per}
}

// DefaultPERTable is a representative 802.11g PER curve: error probability
// rises sharply as received signal approaches the noise floor, and faster
// rates degrade earlier (spec.md §4.5 default table).
var DefaultPERTable = NewPERTable(
	[]int{-90, -85, -80, -75, -70, -65, -60},
	[]int{0, 4, 7, 11}, // representative 1, 6, 18, 54 Mbps rate indices
	[][]float64{
		{1.00, 1.00, 1.00, 1.00},
		{0.90, 0.97, 1.00, 1.00},
		{0.40, 0.70, 0.92, 1.00},
		{0.05, 0.20, 0.55, 0.90},
		{0.01, 0.05, 0.15, 0.45},
		{0.002, 0.01, 0.04, 0.12},
		{0.0005, 0.002, 0.01, 0.03},
	},
)

// clampIndexPair returns the two grid indices bracketing value (lo <= value
// <= hi), and the fractional position of value between them in [0,1].
func clampIndexPair(grid []int, value float64) (lo, hi int, frac float64) {
	n := len(grid)
	if n == 1 {
		return 0, 0, 0
	}
	idx := sort.Search(n, func(i int) bool { return float64(grid[i]) >= value })
	switch {
	case idx == 0:
		return 0, 1, 0
	case idx >= n:
		return n - 2, n - 1, 1
	case float64(grid[idx]) == value:
		return idx, idx, 0
	default:
		lo, hi = idx-1, idx
		span := float64(grid[hi] - grid[lo])
		if span == 0 {
			return lo, hi, 0
		}
		return lo, hi, (value - float64(grid[lo])) / span
	}
}

// Lookup returns the interpolated packet error probability for signalDBm
// and rateIdx, clamped to the table's grid extent at the edges.
func (t *PERTable) Lookup(signalDBm float64, rateIdx int) float64 {
	if len(t.signalLevels) == 0 || len(t.rateIndices) == 0 {
		return 1.0
	}
	sLo, sHi, sFrac := clampIndexPair(t.signalLevels, signalDBm)
	rLo, rHi, rFrac := clampIndexPair(t.rateIndices, float64(rateIdx))

	v00 := t.per[sLo][rLo]
	v01 := t.per[sLo][rHi]
	v10 := t.per[sHi][rLo]
	v11 := t.per[sHi][rHi]

	v0 := v00 + (v01-v00)*rFrac
	v1 := v10 + (v11-v10)*rFrac
	return v0 + (v1-v0)*sFrac
}

// Corrupted draws whether a frame at signalDBm and rateIdx is lost, using
// rng (spec.md §4.5: "PER is sampled once per transmission attempt").
func (t *PERTable) Corrupted(signalDBm float64, rateIdx int, rng *rand.Rand) bool {
	return rng.Float64() < t.Lookup(signalDBm, rateIdx)
}

// LoadPERTable parses a whitespace-separated PER table file (spec.md §4.5:
// "a PER-file loader for whitespace-separated rows"). The reference
// implementation declares this loader as read_per_file
// (original_source/wmediumd/wmediumd.h); its expected format is one header
// line of rate indices followed by one row per signal-dBm level:
//
//	        0      4      7
//	-90     1.0    1.0    1.0
//	-80     0.4    0.7    0.92
//	...
func LoadPERTable(r io.Reader) (*PERTable, error) {
	scanner := bufio.NewScanner(r)
	var rates []int
	var levels []int
	var rows [][]float64
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if rates == nil {
			for _, f := range fields {
				idx, err := strconv.Atoi(f)
				if err != nil {
					return nil, fmt.Errorf("wmediumd: per-file line %d: bad rate index %q: %w", lineNo, f, err)
				}
				rates = append(rates, idx)
			}
			continue
		}
		if len(fields) != len(rates)+1 {
			return nil, fmt.Errorf("wmediumd: per-file line %d: expected %d columns, got %d", lineNo, len(rates)+1, len(fields))
		}
		level, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("wmediumd: per-file line %d: bad signal level %q: %w", lineNo, fields[0], err)
		}
		row := make([]float64, len(rates))
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("wmediumd: per-file line %d: bad PER value %q: %w", lineNo, f, err)
			}
			row[i] = v
		}
		levels = append(levels, level)
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wmediumd: reading per-file: %w", err)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("wmediumd: per-file has no data rows")
	}
	return NewPERTable(levels, rates, rows), nil
}

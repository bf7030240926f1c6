package wmediumd

import (
	"math/rand"
	"strings"
	"testing"
)

func TestPERTableMonotonicWithSignal(t *testing.T) {
	weak := DefaultPERTable.Lookup(-90, 0)
	strong := DefaultPERTable.Lookup(-60, 0)
	if strong >= weak {
		t.Fatalf("PER at strong signal (%f) should be lower than at weak signal (%f)", strong, weak)
	}
}

func TestPERTableClampsOutOfRangeSignal(t *testing.T) {
	belowRange := DefaultPERTable.Lookup(-120, 0)
	atFloor := DefaultPERTable.Lookup(-90, 0)
	if belowRange != atFloor {
		t.Fatalf("PER below grid range = %f, want clamp to edge value %f", belowRange, atFloor)
	}
}

func TestPERTableInterpolatesBetweenGridPoints(t *testing.T) {
	lo := DefaultPERTable.Lookup(-85, 0)
	mid := DefaultPERTable.Lookup(-82, 0)
	hi := DefaultPERTable.Lookup(-80, 0)
	if !(mid <= lo && mid >= hi) {
		t.Fatalf("interpolated value %f is not between grid neighbors lo=%f hi=%f", mid, lo, hi)
	}
}

func TestPERTableCorruptedRespectsProbabilityZeroAndOne(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	always := NewPERTable([]int{-90}, []int{0}, [][]float64{{1.0}})
	never := NewPERTable([]int{-90}, []int{0}, [][]float64{{0.0}})
	for i := 0; i < 50; i++ {
		if !always.Corrupted(-90, 0, rng) {
			t.Fatal("PER 1.0 table reported an uncorrupted frame")
		}
		if never.Corrupted(-90, 0, rng) {
			t.Fatal("PER 0.0 table reported a corrupted frame")
		}
	}
}

func TestLoadPERTableParsesWhitespaceSeparatedRows(t *testing.T) {
	input := `
# comment line
   0    4   11
-90  1.0  1.0  1.0
-60  0.01 0.02 0.03
`
	tbl, err := LoadPERTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadPERTable: %v", err)
	}
	if got := tbl.Lookup(-90, 0); got != 1.0 {
		t.Fatalf("Lookup(-90, 0) = %f, want 1.0", got)
	}
	if got := tbl.Lookup(-60, 11); got != 0.03 {
		t.Fatalf("Lookup(-60, 11) = %f, want 0.03", got)
	}
}

func TestLoadPERTableRejectsRaggedRows(t *testing.T) {
	input := "0 4 7\n-90 1.0 1.0\n"
	if _, err := LoadPERTable(strings.NewReader(input)); err == nil {
		t.Fatal("expected an error for a row with the wrong column count")
	}
}

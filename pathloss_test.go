package wmediumd

import (
	"math"
	"math/rand"
	"testing"
)

func TestFreeSpaceLossIncreasesWithDistance(t *testing.T) {
	m := DefaultPathLossModel
	near := m.Loss(1, nil)
	far := m.Loss(100, nil)
	if far <= near {
		t.Fatalf("loss at 100m (%f) should exceed loss at 1m (%f)", far, near)
	}
}

func TestLogDistanceLossMatchesReferenceAtReferenceDistance(t *testing.T) {
	m := PathLossModel{
		Kind:               PathLossLogDistance,
		Exponent:           3.0,
		ReferenceDistanceM: 1.0,
		ReferenceLossDB:    40.0,
	}
	loss := m.Loss(1.0, nil)
	if math.Abs(loss-40.0) > 1e-9 {
		t.Fatalf("loss at reference distance = %f, want 40.0", loss)
	}
}

func TestLogDistanceShadowingIsDeterministicPerRNGSeed(t *testing.T) {
	m := PathLossModel{
		Kind:               PathLossLogDistance,
		Exponent:           3.0,
		ReferenceDistanceM: 1.0,
		ReferenceLossDB:    40.0,
		ShadowingStdDevDB:  4.0,
	}
	rng1 := rand.New(rand.NewSource(7))
	rng2 := rand.New(rand.NewSource(7))
	if m.Loss(10, rng1) != m.Loss(10, rng2) {
		t.Fatal("same seed produced different shadowing draws")
	}
}

func TestITUIndoorLossIncreasesWithFloors(t *testing.T) {
	base := PathLossModel{Kind: PathLossITUIndoor, FrequencyMHz: 2412, ITUPowerLossCoeff: 28, ITUFloorPenetrationLossDB: 15}
	zeroFloors := base
	zeroFloors.NumFloors = 0
	twoFloors := base
	twoFloors.NumFloors = 2

	if twoFloors.Loss(10, nil) <= zeroFloors.Loss(10, nil) {
		t.Fatal("adding floor penetration loss did not increase total loss")
	}
}

func TestSNRFromLossDecreasesAsLossIncreases(t *testing.T) {
	hi := SNRFromLoss(20, 50, 0)
	lo := SNRFromLoss(20, 80, 0)
	if lo >= hi {
		t.Fatalf("higher path loss should yield lower SNR: lo=%f hi=%f", lo, hi)
	}
}

func TestSNRFromLossClampsToSpecBounds(t *testing.T) {
	if got := SNRFromLoss(1000, 0, 0); got != snrCeilDB {
		t.Fatalf("SNRFromLoss with huge tx power = %f, want clamp to %f", got, snrCeilDB)
	}
	if got := SNRFromLoss(-1000, 0, 0); got != snrFloorDB {
		t.Fatalf("SNRFromLoss with tiny tx power = %f, want clamp to %f", got, snrFloorDB)
	}
}

func TestPathLossModelFadingIsZeroWhenDisabled(t *testing.T) {
	m := PathLossModel{Kind: PathLossFree, FrequencyMHz: 2412}
	if got := m.Fading(nil); got != 0 {
		t.Fatalf("Fading with FadingStdDevDB=0 = %f, want 0", got)
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 3, Y: 4}
	if Distance(a, b) != 5 {
		t.Fatalf("Distance = %f, want 5", Distance(a, b))
	}
	if Distance(a, b) != Distance(b, a) {
		t.Fatal("Distance is not symmetric")
	}
}

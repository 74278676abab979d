package calculator

import "testing"

func TestPassBands_ReferenceDay(t *testing.T) {
	bands, err := PassBands(17850, 17600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bands.Upper != 17945 {
		t.Errorf("Upper = %d, want 17945", bands.Upper)
	}
	if bands.Mid != 17725 {
		t.Errorf("Mid = %d, want 17725", bands.Mid)
	}
	if bands.Lower != 17505 {
		t.Errorf("Lower = %d, want 17505", bands.Lower)
	}
	if !(bands.Lower <= bands.Mid && bands.Mid <= bands.Upper) {
		t.Errorf("band ordering violated: %+v", bands)
	}
}

func TestPassBands_HighBelowLow(t *testing.T) {
	if _, err := PassBands(100, 200); err == nil {
		t.Fatal("expected error for high < low")
	}
}

func TestPassBands_FlatDay(t *testing.T) {
	bands, err := PassBands(17000, 17000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bands.Upper != 17000 || bands.Mid != 17000 || bands.Lower != 17000 {
		t.Errorf("flat day should collapse all bands to 17000, got %+v", bands)
	}
}

// Rounding is half-away-from-zero. (3+2)/2 = 2.5 rounds to 3; half-to-even
// would give 2, so this pins the choice.
func TestPassBands_RoundsHalfAwayFromZero(t *testing.T) {
	bands, err := PassBands(3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bands.Mid != 3 {
		t.Errorf("Mid = %d, want 3 (half rounds away from zero)", bands.Mid)
	}
}

func TestDivider(t *testing.T) {
	if d := Divider(17700, 17600, 17780); d != 17693 {
		t.Errorf("Divider = %d, want 17693", d)
	}
}

func TestCostBasis(t *testing.T) {
	// 85000 thousand over 1000 contracts at 200 per point
	if c := CostBasis(1000, 85000, 1000, 200); c != 425 {
		t.Errorf("CostBasis = %d, want 425", c)
	}
	// 67000 thousand over 800 contracts: 418.75 rounds to 419
	if c := CostBasis(800, 67000, 1000, 200); c != 419 {
		t.Errorf("CostBasis = %d, want 419", c)
	}
}

func TestCostBasis_ZeroVolume(t *testing.T) {
	if c := CostBasis(0, 85000, 1000, 200); c != 0 {
		t.Errorf("CostBasis with zero volume = %d, want 0", c)
	}
}

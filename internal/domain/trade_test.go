package domain

import "testing"

func TestScaleFixed(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{100, "100000000000000000000"},
		{10, "10000000000000000000"},
		{0, "0"},
		{0.5, "500000000000000000"},
		{2.5, "2500000000000000000"},
	}
	for _, c := range cases {
		if got := ScaleFixed(c.in); got != c.want {
			t.Errorf("ScaleFixed(%v) = %s, expected %s", c.in, got, c.want)
		}
	}
}

func TestVenueConstants(t *testing.T) {
	if FullCloseBasis != 10_000_000_000 {
		t.Errorf("full-close sentinel drifted: %d", FullCloseBasis)
	}
	gas := CloseGas()
	if gas.Price != 1_000_000_000 {
		t.Errorf("close gas price drifted: %d", gas.Price)
	}
	if gas.Limit != 10_000_000_000 {
		t.Errorf("close gas limit drifted: %d", gas.Limit)
	}
}

func TestZeroPermitTuple(t *testing.T) {
	tuple := ZeroPermit().Tuple()
	if len(tuple) != 6 {
		t.Fatalf("permit tuple must have 6 fields, got %d", len(tuple))
	}
	if tuple[0] != "0" || tuple[1] != "0" || tuple[2] != int64(0) {
		t.Errorf("permit head must be zero-valued: %v", tuple[:3])
	}
	if tuple[5] != false {
		t.Errorf("usePermit must be false, got %v", tuple[5])
	}
}

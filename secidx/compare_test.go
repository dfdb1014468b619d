package secidx

import "testing"

func TestCompareInt(t *testing.T) {
	cases := []struct {
		a, b int32
		want int
	}{
		{1, 2, -1},
		{2, 1, 1},
		{5, 5, 0},
		{-5, 5, -1},
		{-5, -1, -1},
	}
	for _, c := range cases {
		got := compare(EncodeInt(c.a), EncodeInt(c.b), AttrInt)
		if sign(got) != c.want {
			t.Errorf("compare(%d, %d) = %d, want sign %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCompareFloat(t *testing.T) {
	cases := []struct {
		a, b float64
		want int
	}{
		{1.5, 2.5, -1},
		{-1.5, 1.5, -1},
		{-2.5, -1.5, -1},
		{0, 0, 0},
		{-0.0, 0.0, 0},
	}
	for _, c := range cases {
		got := compare(EncodeFloat(c.a), EncodeFloat(c.b), AttrFloat)
		if sign(got) != c.want {
			t.Errorf("compare(%v, %v) = %d, want sign %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCompareString(t *testing.T) {
	if compare(EncodeString("abc", 8), EncodeString("abd", 8), AttrString) >= 0 {
		t.Errorf("expected \"abc\" < \"abd\"")
	}
	if compare(EncodeString("abc", 8), EncodeString("abc", 8), AttrString) != 0 {
		t.Errorf("expected equal strings to compare equal")
	}
}

func TestEncodeFloatPanicsOnNaN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected EncodeFloat(NaN) to panic")
		}
	}()
	EncodeFloat(nan())
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

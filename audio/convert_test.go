package audio

import "testing"

func TestClamp16(t *testing.T) {
	cases := []struct {
		in   int
		want int16
	}{
		{0, 0},
		{1234, 1234},
		{-1234, -1234},
		{32767, 32767},
		{32768, 32767},
		{100000, 32767},
		{-32768, -32768},
		{-32769, -32768},
		{-100000, -32768},
	}
	for _, c := range cases {
		if got := Clamp16(c.in); got != c.want {
			t.Errorf("Clamp16(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSum16Saturates(t *testing.T) {
	if got := Sum16(1000, 2000); got != 3000 {
		t.Errorf("Sum16(1000, 2000) = %d, want 3000", got)
	}
	if got := Sum16(30000, 10000); got != MaxSample {
		t.Errorf("Sum16 overflow = %d, want %d", got, MaxSample)
	}
	if got := Sum16(-30000, -10000); got != MinSample {
		t.Errorf("Sum16 underflow = %d, want %d", got, MinSample)
	}
}

func TestFloatsToPCM(t *testing.T) {
	in := []float64{0, 1, -1, 0.5, -0.5, 2, -2}
	got := FloatsToPCM(in)

	// 0.5*32767 = 16383.5 truncates toward zero, it does not round.
	want := []int16{0, 32767, -32767, 16383, -16383, 32767, -32768}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d (input %g)", i, got[i], want[i], in[i])
		}
	}
}

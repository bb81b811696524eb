package utils

import "testing"

func TestBytesToString(t *testing.T) {
	var tests = []struct {
		in  []byte
		out string
	}{
		{[]byte("bg_star_000\x00\x00\x00\x00"), "bg_star_000"},
		{[]byte("  padded  \x00garbage"), "padded"},
		{[]byte("full"), "full"},
		// テスト in Shift JIS
		{[]byte{0x83, 0x65, 0x83, 0x58, 0x83, 0x67, 0x00, 0x00}, "テスト"},
	}

	for _, test := range tests {
		if result := BytesToString(test.in); result != test.out {
			t.Errorf("BytesToString(%v)=%q; expected %q", test.in, result, test.out)
		}
	}
}

func TestStringToBytesBuffer(t *testing.T) {
	b := StringToBytesBuffer("テスト", 0x20)
	if len(b) != 0x20 {
		t.Fatalf("len=%d; expected 0x20", len(b))
	}
	if s := BytesToString(b); s != "テスト" {
		t.Errorf("round trip=%q", s)
	}
}

func TestFloorDiv(t *testing.T) {
	var tests = []struct{ a, b, q int }{
		{7, 2, 3},
		{-7, 2, -4},
		{6, 3, 2},
		{-6, 3, -2},
		{0, 5, 0},
		{-1, 2, -1},
	}
	for _, test := range tests {
		if q := FloorDiv(test.a, test.b); q != test.q {
			t.Errorf("FloorDiv(%d,%d)=%d; expected %d", test.a, test.b, q, test.q)
		}
	}
}

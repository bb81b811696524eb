package utils

import "testing"

var hashTests = []struct {
	in  string
	out uint32
}{
	{"", 0x0},
	{"a", 0x21},
	{"ab", 0x851},
	{"fpga_mp3.bin", 0x76299d59},
	{"music_info.bin", 0x63abb710},
	{"tex_group_system.fcn", 0x27804b8a},
}

func TestFilenameHash(t *testing.T) {
	for _, test := range hashTests {
		result := FilenameHash(test.in)
		if result != test.out {
			t.Errorf("FilenameHash(%q)=%#x; expected %#x", test.in, result, test.out)
		}
	}
}

package pccard

import (
	"bytes"
	"encoding/binary"
	"io"
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/utils"
	"github.com/sammargh/gfdmtools/vfs"
)

func TestEncryptFilename(t *testing.T) {
	var tests = []struct {
		name, expect string
	}{
		{"a", "gkgggggg"},
		{"gf_title", "ewmqsqud"},
		{"ifdm_sjis_long_name", "wnzckynr"},
	}
	for _, test := range tests {
		if got := EncryptFilename(test.name); got != test.expect {
			t.Errorf("EncryptFilename(%q)=%q, expected %q", test.name, got, test.expect)
		}
	}
}

func buildContainer(hashes []uint32, files []string) []byte {
	le := binary.LittleEndian
	var table, data bytes.Buffer
	dataStart := (len(files) + 1) * RECORD_SIZE
	for i, f := range files {
		binary.Write(&table, le, []uint32{hashes[i], uint32(dataStart + data.Len()), uint32(len(f)), 0})
		data.WriteString(f)
	}
	binary.Write(&table, le, []uint32{0, TABLE_END, 0, 0})
	return append(table.Bytes(), data.Bytes()...)
}

func TestContainer(t *testing.T) {
	buf := buildContainer(
		[]uint32{0x63abb710, 0x1234, utils.FilenameHash("gsq_list.bin")},
		[]string{"MUSIC", "UNKNOWN", "GSQ"})

	c, err := NewFromReader("PCCARD1.DAT", io.NewSectionReader(bytes.NewReader(buf), 0, int64(len(buf))), 0, KnownNames)
	if err != nil {
		t.Fatalf("NewFromReader: %v", err)
	}

	names, _ := c.List()
	if !reflect.DeepEqual(names, []string{"music_info.bin", "output_0001.bin", "gsq_list.bin"}) {
		t.Errorf("names %v", names)
	}
	data, err := vfs.DirectoryReadFile(c, "output_0001.bin")
	if err != nil || string(data) != "UNKNOWN" {
		t.Errorf("read %q %v", data, err)
	}

	if _, err := NewFromReader("broken", io.NewSectionReader(bytes.NewReader(buf[:20]), 0, 20), 0, nil); !errors.Is(err, ErrFormat) {
		t.Errorf("truncated table: %v", err)
	}
}

func TestGameTableOffset(t *testing.T) {
	buf := make([]byte, 0x44)
	binary.LittleEndian.PutUint32(buf[0x24+0x1c:], 0x1000)
	// second header lands at 0x60000 after alignment
	buf = append(buf, make([]byte, 0x60000+0x40-len(buf))...)
	binary.LittleEndian.PutUint32(buf[0x60000+0x1c:], 0x70000)

	off, err := GameTableOffset(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("GameTableOffset: %v", err)
	}
	if off != 0x120000 {
		t.Errorf("offset 0x%x", off)
	}
}

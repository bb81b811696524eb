package obj

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/sammargh/gfdmtools/utils"
)

func buildObj(names ...string) []byte {
	var b bytes.Buffer
	for i, name := range names {
		b.Write(utils.StringToBytesBuffer(name, NAME_SIZE))
		binary.Write(&b, binary.LittleEndian, []uint16{uint16(i), 0, 0, 0, 0, 0, 32, 16, 0, uint16(i + 100)})
	}
	return b.Bytes()
}

func TestRecordNames(t *testing.T) {
	var tests = []struct {
		name   string
		expect []string
		fails  bool
	}{
		{"logo", []string{"logo"}, false},
		{"star@3_1", []string{"star_000", "star_001", "star_002"}, false},
		{"star@2_1.2", []string{"star_004", "star_005"}, false},
		{"bad@2_2", []string{"bad@2_2"}, true},
		{"mail@example", []string{"mail@example"}, false},
	}

	for _, test := range tests {
		r := Record{Name: test.name}
		got, err := r.Names()
		if (err != nil) != test.fails || !reflect.DeepEqual(got, test.expect) {
			t.Errorf("Names(%q) = %v, %v", test.name, got, err)
		}
	}
}

func TestObj(t *testing.T) {
	// trailing bytes of an incomplete record are ignored
	buf := append(buildObj("bg", "anim@2_1", "x@1_3"), 1, 2, 3)
	o, err := NewFromData(buf)
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	if len(o.Records) != 3 || o.Records[1].Width != 32 || o.Records[1].Height != 16 || o.Records[2].AnimGroupId != 102 {
		t.Errorf("records %+v", o.Records)
	}

	names := o.Names()
	if !reflect.DeepEqual(names, []string{"bg", "anim_000", "anim_001", "x@1_3"}) {
		t.Errorf("Names %v", names)
	}
	if len(o.Issues) != 1 {
		t.Errorf("issues %v", o.Issues)
	}
}

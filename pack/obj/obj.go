package obj

import (
	"fmt"
	"log"
	"regexp"
	"strconv"

	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/readat"
	"github.com/sammargh/gfdmtools/utils"
)

const (
	RECORD_SIZE = 0x30
	NAME_SIZE   = 0x1c
)

var sheetName = regexp.MustCompile(`@(\d+)_(\d+)(?:\.(\d+))?$`)

type Record struct {
	Name        string
	Unk1        uint16
	Unk2        uint16
	ArrUnk1     uint16
	ArrUnk2     uint16
	ArrUnk3     uint16
	ArrUnk4     uint16
	Width       uint16
	Height      uint16
	ArrUnk5     uint16
	AnimGroupId uint16
}

// Names expands a sheet record "base@N_1[.B]" into the N frame names base_%03d starting at B*N.
func (r *Record) Names() ([]string, error) {
	match := sheetName.FindStringSubmatchIndex(r.Name)
	if match == nil {
		return []string{r.Name}, nil
	}

	group := func(i int) string {
		if match[i*2] < 0 {
			return ""
		}
		return r.Name[match[i*2]:match[i*2+1]]
	}
	count, _ := strconv.Atoi(group(1))
	rows, _ := strconv.Atoi(group(2))
	if rows != 1 {
		return []string{r.Name}, errors.Errorf("obj: '%s': %d sheet rows are not supported", r.Name, rows)
	}
	base := 0
	if g := group(3); g != "" {
		base, _ = strconv.Atoi(g)
	}
	base *= count

	prefix := r.Name[:match[0]]
	names := make([]string, count)
	for j := range names {
		names[j] = fmt.Sprintf("%s_%03d", prefix, j+base)
	}
	return names, nil
}

type OBJ struct {
	Records []Record
	Issues  []error `json:"-"`
}

func NewFromData(buf []byte) (*OBJ, error) {
	o := &OBJ{Records: make([]Record, len(buf)/RECORD_SIZE)}
	r := readat.NewBytesReader(buf)
	for i := range o.Records {
		rec := &o.Records[i]
		rec.Name = utils.BytesToString(r.Bytes(NAME_SIZE))
		for _, f := range []*uint16{
			&rec.Unk1, &rec.Unk2, &rec.ArrUnk1, &rec.ArrUnk2, &rec.ArrUnk3,
			&rec.ArrUnk4, &rec.Width, &rec.Height, &rec.ArrUnk5, &rec.AnimGroupId,
		} {
			*f = r.U16()
		}
	}
	if r.Err() != nil {
		return nil, errors.Wrap(r.Err(), "obj")
	}
	return o, nil
}

// Names is the animation name table: every record expanded, in record order.
func (o *OBJ) Names() []string {
	names := make([]string, 0, len(o.Records))
	for i := range o.Records {
		expanded, err := o.Records[i].Names()
		if err != nil {
			log.Printf("[obj] %v", err)
			o.Issues = append(o.Issues, err)
		}
		names = append(names, expanded...)
	}
	return names
}

package obj

import (
	"io"
	"io/ioutil"

	"github.com/sammargh/gfdmtools/pack"
)

func init() {
	pack.SetHandler(".OBJ", func(name string, r *io.SectionReader) (interface{}, error) {
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return NewFromData(data)
	})
}

package fcn

import (
	"io"

	"github.com/sammargh/gfdmtools/pack"
)

func init() {
	pack.SetHandler(".FCN", func(name string, r *io.SectionReader) (interface{}, error) {
		return NewFromReader(name, r)
	})
}

package aebg

import (
	"io"
	"io/ioutil"

	"github.com/sammargh/gfdmtools/pack"
)

func init() {
	pack.SetHandler(".DAT", func(name string, r *io.SectionReader) (interface{}, error) {
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return Parse(data)
	})
}

package vfs

import (
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

func OpenFileAndGetReader(f File) (*io.SectionReader, error) {
	if err := f.Open(); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", f.Name())
	} else {
		if r, err := f.Reader(); err != nil {
			defer f.Close()
			return nil, errors.Wrapf(err, "Cannot get file '%s' reader", f.Name())
		} else {
			return r, err
		}
	}
}

func DirectoryGetFile(d Directory, name string) (File, error) {
	if f, err := d.GetElement(name); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", name)
	} else if f.IsDirectory() {
		return nil, errors.Errorf("File '%s' is directory, not a file!", name)
	} else {
		return f.(File), nil
	}
}

func DirectoryGetDirectory(d Directory, name string) (Directory, error) {
	if e, err := d.GetElement(name); err != nil {
		return nil, errors.Wrapf(err, "Cannot open directory '%s'", name)
	} else if dir, ok := e.(Directory); !ok {
		return nil, errors.Errorf("'%s' is not a directory", name)
	} else {
		return dir, nil
	}
}

// ReadFile loads the whole file into memory.
func ReadFile(f File) ([]byte, error) {
	r, err := OpenFileAndGetReader(f)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, r.Size())
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "Cannot read file '%s'", f.Name())
	}
	return buf, nil
}

func DirectoryReadFile(d Directory, name string) ([]byte, error) {
	f, err := DirectoryGetFile(d, name)
	if err != nil {
		return nil, err
	}
	return ReadFile(f)
}

// DirectoryFind returns the listed name matching name without regard to case.
func DirectoryFind(d Directory, name string) (string, bool) {
	names, err := d.List()
	if err != nil {
		return "", false
	}
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

func SortedList(d Directory) ([]string, error) {
	names, err := d.List()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

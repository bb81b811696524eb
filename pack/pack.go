package pack

import (
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/vfs"
)

var ErrNoHandler = errors.New("no handler for extension")

type FileLoader func(name string, r *io.SectionReader) (interface{}, error)

var (
	gHandlersLock sync.RWMutex
	gHandlers     = make(map[string]FileLoader)
)

// SetHandler registers the loader of files with the extension format (".DAT").
func SetHandler(format string, ldr FileLoader) {
	gHandlersLock.Lock()
	defer gHandlersLock.Unlock()
	gHandlers[strings.ToUpper(format)] = ldr
}

func Handled() []string {
	gHandlersLock.RLock()
	defer gHandlersLock.RUnlock()
	exts := make([]string, 0, len(gHandlers))
	for ext := range gHandlers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func CallHandler(name string, r *io.SectionReader) (interface{}, error) {
	ext := strings.ToUpper(filepath.Ext(name))

	gHandlersLock.RLock()
	h, found := gHandlers[ext]
	gHandlersLock.RUnlock()
	if !found {
		return nil, errors.Wrapf(ErrNoHandler, "[pack] '%s'", ext)
	}
	return h(name, r)
}

// GetInstanceHandler loads fileName of d with the handler of its extension.
func GetInstanceHandler(d vfs.Directory, fileName string) (interface{}, error) {
	f, err := vfs.DirectoryGetFile(d, fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Cannot get file '%s'", fileName)
	}

	r, err := vfs.OpenFileAndGetReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Cannot get instance of '%s'", fileName)
	}
	defer f.Close()

	inst, err := CallHandler(f.Name(), r)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Handler error")
	}
	return inst, nil
}

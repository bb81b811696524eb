package sprite

import (
	"fmt"
	"image"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/pack/tim"
	"github.com/sammargh/gfdmtools/vfs"
)

type cacheKey struct {
	name string
	clut int
}

// Library is a Provider over a set of named refs. Rendered bitmaps are cached per (name, clut).
type Library struct {
	decode Decoder
	refs   map[string]Ref

	mu    sync.Mutex
	cache map[cacheKey]*image.NRGBA
}

// NewLibrary uses the TIM decoder when decode is nil.
func NewLibrary(decode Decoder) *Library {
	if decode == nil {
		decode = tim.Decode
	}
	return &Library{
		decode: decode,
		refs:   make(map[string]Ref),
		cache:  make(map[cacheKey]*image.NRGBA),
	}
}

func (l *Library) Add(name string, ref Ref) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refs[name] = ref
	for key := range l.cache {
		if key.name == name {
			delete(l.cache, key)
		}
	}
}

func (l *Library) Ref(name string) (Ref, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ref, ok := l.refs[name]
	return ref, ok
}

func (l *Library) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.refs))
	for name := range l.refs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Library) Sprite(name string, clut int) (*image.NRGBA, error) {
	key := cacheKey{name: name, clut: clut}

	l.mu.Lock()
	if img, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return img, nil
	}
	ref, ok := l.refs[name]
	l.mu.Unlock()
	if !ok {
		return nil, errors.Wrapf(ErrAssetNotFound, "'%s'", name)
	}

	// decoding runs unlocked, concurrent misses of one key decode twice and store the same result
	img, err := ref.render(l.decode, clut)
	if err != nil {
		return nil, errors.Wrapf(err, "sprite '%s' clut %d", name, clut)
	}

	l.mu.Lock()
	l.cache[key] = img
	l.mu.Unlock()
	return img, nil
}

var (
	sheetGroup = regexp.MustCompile(`(.*)@\d+_\d+(?:\.(\d+))?(?:\.(\d+))?(?:\.(\d+))?$`)
	sheetGrid  = regexp.MustCompile(`@(\d+)_(\d+)(?:\.(\d+))?(?:\.(\d+))?$`)
)

type sheetKey struct {
	base  string
	index int
}

type sheetFile struct {
	stem string
	data []byte
}

// FromDirectory builds the sprite library of an archive. Plain TIMs are sprites named after the
// file without extension. Sheet TIMs "base@X_Y[.S[.P]]" are split into X*Y cells named base_NNN;
// sheets sharing base and S are stacked, each file contributing one region of every cell.
func FromDirectory(d vfs.Directory) (*Library, error) {
	names, err := d.List()
	if err != nil {
		return nil, err
	}

	l := NewLibrary(nil)
	var order []sheetKey
	sheets := make(map[sheetKey][]sheetFile)

	for _, name := range names {
		if !strings.HasSuffix(strings.ToLower(name), ".tim") {
			continue
		}
		data, err := vfs.DirectoryReadFile(d, name)
		if err != nil {
			return nil, err
		}

		stem := name[:len(name)-4]
		match := sheetGroup.FindStringSubmatch(stem)
		if match == nil {
			l.Add(stem, Encoded(data))
			continue
		}

		key := sheetKey{base: match[1]}
		key.index, _ = strconv.Atoi(match[2])
		if _, ok := sheets[key]; !ok {
			order = append(order, key)
		}
		sheets[key] = append(sheets[key], sheetFile{stem: stem, data: data})
	}

	for _, key := range order {
		group := sheets[key]
		for _, sheet := range group {
			loc := sheetGrid.FindStringSubmatchIndex(sheet.stem)
			num := func(i int) int {
				if loc[i*2] < 0 {
					return 0
				}
				v, _ := strconv.Atoi(sheet.stem[loc[i*2]:loc[i*2+1]])
				return v
			}

			columns := num(1)
			rows := num(2) / len(group)
			base := columns * rows * num(3)
			prefix := sheet.stem[:loc[0]]

			j := 0
			for x := 0; x < columns; x++ {
				for y := 0; y < rows; y++ {
					name := fmt.Sprintf("%s_%03d", prefix, j+base)
					ref, ok := l.refs[name]
					if !ok || ref.Kind != KIND_COMPOSITE {
						ref = Composite(nil)
					}
					ref.Regions = append(ref.Regions, Region{Data: sheet.data, X: x, Y: y, Columns: columns, Rows: rows})
					l.refs[name] = ref
					j++
				}
			}
		}
	}

	log.Printf("[sprite] %s: %d sprites", d.Name(), len(l.refs))
	return l, nil
}

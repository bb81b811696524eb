package config

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

const DefaultEncoding = "Shift JIS"

var currentEncoding encoding.Encoding = japanese.ShiftJIS

var namedEncodings = map[string]encoding.Encoding{
	"Shift JIS": japanese.ShiftJIS,
	"EUC-JP":    japanese.EUCJP,
}

func normalizeEncodingName(name string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
}

// SetEncoding selects the text encoding used for fixed-width name fields.
// Names are matched ignoring case, spaces, dashes and underscores.
func SetEncoding(name string) error {
	want := normalizeEncodingName(name)
	for n, enc := range namedEncodings {
		if normalizeEncodingName(n) == want {
			currentEncoding = enc
			return nil
		}
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if normalizeEncodingName(cm.String()) == want {
				currentEncoding = cm
				return nil
			}
		}
	}
	return errors.Errorf("Failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := []string{"Shift JIS", "EUC-JP"}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

func GetEncoding() encoding.Encoding {
	return currentEncoding
}

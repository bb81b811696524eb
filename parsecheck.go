package main

import (
	"log"
	"strings"

	"github.com/sammargh/gfdmtools/pack"
	"github.com/sammargh/gfdmtools/pack/aebg"
	"github.com/sammargh/gfdmtools/vfs"
)

// parseCheck parses and resolves every animation of rootfs and logs what went wrong.
// It returns the number of animations with issues.
func parseCheck(rootfs vfs.Directory) int {
	list, err := vfs.SortedList(rootfs)
	if err != nil {
		log.Fatal(err)
	}

	bad := 0
	for _, fname := range list {
		if !strings.HasSuffix(strings.ToUpper(fname), ".DAT") {
			continue
		}
		data, err := pack.GetInstanceHandler(rootfs, fname)
		if err != nil {
			log.Printf("E %-24s %v", fname, err)
			bad++
			continue
		}
		f, ok := data.(*aebg.File)
		if !ok {
			continue
		}
		tl, err := aebg.Resolve(f, aebg.DefaultOptions())
		if err != nil {
			log.Printf("E %-24s %v", fname, err)
			bad++
			continue
		}
		if !tl.HasCanvas {
			log.Printf("W %-24s no canvas entry", fname)
		}
		if issues := len(f.Issues) + len(tl.Issues); issues != 0 {
			log.Printf("W %-24s %d entries, %d ticks, %d issues", fname, len(f.Entries), tl.Len(), issues)
			bad++
		}
	}
	return bad
}

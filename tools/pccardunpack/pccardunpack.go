package main

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sammargh/gfdmtools/pack/pccard"
	"github.com/sammargh/gfdmtools/vfs"
)

// readNames loads one file name per line, empty lines and # comments skipped.
func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			names = append(names, line)
		}
	}
	return names, sc.Err()
}

func main() {
	var in, outDir, namesPath string
	var game, data6 bool
	var tableOffset int64
	flag.StringVar(&in, "i", "", "Input PCCARD or GAME.DAT file")
	flag.StringVar(&outDir, "o", "output", "Output directory")
	flag.StringVar(&namesPath, "names", "", "Extra known file names, one per line")
	flag.BoolVar(&game, "game", false, "Input is GAME.DAT, the file table follows the executables")
	flag.BoolVar(&data6, "data6", false, "List the DATA6 names of PCCARD1.DAT and exit")
	flag.Int64Var(&tableOffset, "table", 0, "File table offset")
	flag.Parse()

	if in == "" {
		flag.PrintDefaults()
		return
	}

	file := vfs.NewDirectoryDriverFile(in)
	if err := file.Open(); err != nil {
		log.Fatal(err)
	}
	defer file.Close()
	r, err := file.Reader()
	if err != nil {
		log.Fatal(err)
	}

	if data6 {
		entries, err := pccard.Data6Names(r)
		if err != nil {
			log.Fatal(err)
		}
		for _, e := range entries {
			fmt.Printf("%4d %-16s %s\n", e.Index, e.Name, e.Path)
		}
		return
	}

	names := pccard.KnownNames
	if namesPath != "" {
		extra, err := readNames(namesPath)
		if err != nil {
			log.Fatal(err)
		}
		names = append(append([]string(nil), names...), extra...)
	}

	if game {
		if tableOffset, err = pccard.GameTableOffset(r); err != nil {
			log.Fatal(err)
		}
		log.Printf("[pccardunpack] file table at 0x%x", tableOffset)
	}

	c, err := pccard.NewFromReader(file.Name(), r, tableOffset, names)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(outDir, 0777); err != nil {
		log.Fatal(err)
	}
	for _, rec := range c.Records {
		data, err := vfs.DirectoryReadFile(c, rec.Name)
		if err != nil {
			log.Fatal(err)
		}
		if err := ioutil.WriteFile(filepath.Join(outDir, rec.Name), data, 0666); err != nil {
			log.Fatal(err)
		}
		log.Printf("[pccardunpack] %08x %08x %8x %s", rec.Hash, rec.Offset, rec.Size, rec.Name)
	}
}

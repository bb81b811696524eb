package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/config"
	"github.com/sammargh/gfdmtools/pack/fcn"
	"github.com/sammargh/gfdmtools/pack/tim"
	"github.com/sammargh/gfdmtools/sprite"
	"github.com/sammargh/gfdmtools/vfs"
)

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "Failed to encode '%s'", path)
	}
	return f.Close()
}

// convertTim writes name.png, or name_clutN.png for every palette when allCluts is set.
func convertTim(outDir, name string, data []byte, allCluts bool) error {
	t, err := tim.NewFromData(data)
	if err != nil {
		return err
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	cluts := 1
	if allCluts && t.ClutCount > 1 {
		cluts = t.ClutCount
	}
	for clut := 0; clut < cluts; clut++ {
		img, err := t.Image(clut)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, stem+".png")
		if cluts > 1 {
			path = filepath.Join(outDir, fmt.Sprintf("%s_clut%d.png", stem, clut))
		}
		if err := writePNG(path, img); err != nil {
			return err
		}
	}
	return nil
}

func unpack(a *fcn.Archive, outDir string, allCluts, convert bool) error {
	names, err := a.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		data, err := vfs.DirectoryReadFile(a, name)
		if err != nil {
			return err
		}
		if err := ioutil.WriteFile(filepath.Join(outDir, name), data, 0666); err != nil {
			return err
		}
		if convert && strings.EqualFold(filepath.Ext(name), ".tim") {
			if err := convertTim(outDir, name, data, allCluts); err != nil {
				log.Printf("[fcnunpack] Failed to convert '%s': %v", name, err)
			}
		}
	}
	log.Printf("[fcnunpack] %s: %d files", a.Name(), len(names))
	return nil
}

// exportSprites writes every named sprite of the archive, sheet cells included.
func exportSprites(a *fcn.Archive, outDir string) error {
	lib, err := sprite.FromDirectory(a)
	if err != nil {
		return err
	}
	dir := filepath.Join(outDir, "sprites")
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	for _, name := range lib.Names() {
		img, err := lib.Sprite(name, 0)
		if err != nil {
			log.Printf("[fcnunpack] Sprite '%s': %v", name, err)
			continue
		}
		if err := writePNG(filepath.Join(dir, name+".png"), img); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	var in, outDir, encoding string
	var allCluts, noConvert, sprites bool
	flag.StringVar(&in, "i", "", "Input fcn file")
	flag.StringVar(&outDir, "o", "", "Output directory, defaults to the input name without extension")
	flag.StringVar(&encoding, "encoding", config.DefaultEncoding, "File name encoding")
	flag.BoolVar(&allCluts, "allcluts", false, "Convert TIM files with every palette")
	flag.BoolVar(&noConvert, "raw", false, "Do not convert TIM files to png")
	flag.BoolVar(&sprites, "sprites", false, "Also export the sprites with sheet cells split")
	flag.Parse()

	if in == "" {
		flag.PrintDefaults()
		return
	}
	if err := config.SetEncoding(encoding); err != nil {
		log.Fatal(err)
	}
	if outDir == "" {
		outDir = strings.TrimSuffix(in, filepath.Ext(in))
	}
	if err := os.MkdirAll(outDir, 0777); err != nil {
		log.Fatal(err)
	}

	data, err := ioutil.ReadFile(in)
	if err != nil {
		log.Fatal(err)
	}
	a, err := fcn.NewFromData(filepath.Base(in), data)
	if err != nil {
		log.Fatal(err)
	}
	if err := unpack(a, outDir, allCluts, !noConvert); err != nil {
		log.Fatal(err)
	}
	if sprites {
		if err := exportSprites(a, outDir); err != nil {
			log.Fatal(err)
		}
	}
}

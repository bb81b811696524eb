package main

import (
	"flag"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sammargh/gfdmtools/config"
	"github.com/sammargh/gfdmtools/pack/aebg"
	"github.com/sammargh/gfdmtools/pack/fcn"
	"github.com/sammargh/gfdmtools/pack/obj"
	"github.com/sammargh/gfdmtools/project"
	"github.com/sammargh/gfdmtools/sink"
	"github.com/sammargh/gfdmtools/sprite"
	"github.com/sammargh/gfdmtools/utils"
)

func loadNames(objPath string, archive *fcn.Archive) (aebg.NameTable, error) {
	if objPath == "" {
		return nil, nil
	}
	if data, err := ioutil.ReadFile(objPath); err == nil {
		o, err := obj.NewFromData(data)
		if err != nil {
			return nil, err
		}
		return aebg.Names(o.Names()), nil
	}
	return project.LoadNames(filepath.Base(objPath), archive)
}

func main() {
	var datPath, fcnPath, objPath, cfgPath, outDir, format, exportPath string
	var dump bool
	flag.StringVar(&datPath, "dat", "", "Animation file (AEBG)")
	flag.StringVar(&fcnPath, "fcn", "", "Sprite archive")
	flag.StringVar(&objPath, "obj", "", "Object table used as animation name table, path or archive member")
	flag.StringVar(&cfgPath, "config", "", "Path to yaml render config")
	flag.StringVar(&outDir, "o", "", "Output dir override")
	flag.StringVar(&format, "format", "", "Output format override: png, bmp or gif")
	flag.StringVar(&exportPath, "export", "", "Write the resolved timeline as yaml to this file")
	flag.BoolVar(&dump, "dump", false, "Dump the parsed animation")
	flag.Parse()

	if datPath == "" || fcnPath == "" {
		flag.PrintDefaults()
		return
	}

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if err := cfg.Apply(); err != nil {
		log.Fatal(err)
	}

	data, err := ioutil.ReadFile(datPath)
	if err != nil {
		log.Fatal(err)
	}
	f, err := aebg.Parse(data)
	if err != nil {
		log.Fatalf("Failed to parse '%s': %v", datPath, err)
	}
	if dump {
		utils.Dump(os.Stdout, f)
	}

	fcnData, err := ioutil.ReadFile(fcnPath)
	if err != nil {
		log.Fatal(err)
	}
	archive, err := fcn.NewFromData(filepath.Base(fcnPath), fcnData)
	if err != nil {
		log.Fatalf("Failed to open '%s': %v", fcnPath, err)
	}
	lib, err := sprite.FromDirectory(archive)
	if err != nil {
		log.Fatal(err)
	}
	names, err := loadNames(objPath, archive)
	if err != nil {
		log.Fatal(err)
	}

	name := strings.TrimSuffix(filepath.Base(datPath), filepath.Ext(datPath))
	p, err := project.New(name, f, lib, names, cfg.Render)
	if err != nil {
		log.Fatal(err)
	}

	if exportPath != "" {
		out, err := yaml.Marshal(p.Timeline.Export())
		if err != nil {
			log.Fatal(err)
		}
		if err := ioutil.WriteFile(exportPath, out, 0666); err != nil {
			log.Fatal(err)
		}
	}

	s, err := sink.New(cfg.Output, name)
	if err != nil {
		log.Fatal(err)
	}
	total := len(p.Timeline.OutputTicks(cfg.Render.ClipToCanvas, cfg.Render.FillGaps))
	s = sink.WithProgress(s, total, func(done, total int) {
		if done%100 == 0 || done == total {
			log.Printf("[animrender] %s: %d/%d frames", name, done, total)
		}
	})
	if err := p.Render(s, cfg.Render); err != nil {
		s.Close()
		log.Fatal(err)
	}
	if err := s.Close(); err != nil {
		log.Fatal(err)
	}

	if issues := len(f.Issues) + len(p.Timeline.Issues); issues != 0 {
		log.Printf("[animrender] %s: %d issues", name, issues)
	}
}

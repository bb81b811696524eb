package main

import (
	"flag"
	"log"

	"github.com/sammargh/gfdmtools/config"
	"github.com/sammargh/gfdmtools/vfs"
	"github.com/sammargh/gfdmtools/web"

	_ "github.com/sammargh/gfdmtools/pack/aebg"
	_ "github.com/sammargh/gfdmtools/pack/fcn"
	_ "github.com/sammargh/gfdmtools/pack/obj"
	_ "github.com/sammargh/gfdmtools/pack/tim"
)

func main() {
	var addr, dir, iso, cfgPath, encoding string
	var check bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&dir, "dir", "", "Path to unpacked game data")
	flag.StringVar(&iso, "iso", "", "Path to iso file")
	flag.StringVar(&cfgPath, "config", "", "Path to yaml render config")
	flag.StringVar(&encoding, "encoding", "", "Name table encoding override")
	flag.BoolVar(&check, "check", false, "Parse every animation, report issues and exit")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if encoding != "" {
		cfg.Encoding = encoding
	}
	if err := cfg.Apply(); err != nil {
		log.Fatal(err)
	}

	var d vfs.Directory
	if iso != "" {
		f := vfs.NewDirectoryDriverFile(iso)
		if err := f.Open(); err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		isoDir, err := vfs.NewIsoDriver(f)
		if err != nil {
			log.Fatal(err)
		}
		d = isoDir
	} else if dir != "" {
		d = vfs.NewDirectoryDriver(dir)
	} else {
		flag.PrintDefaults()
		return
	}

	if check {
		if bad := parseCheck(d); bad != 0 {
			log.Fatalf("%d animations with issues", bad)
		}
		return
	}

	if err := web.StartServer(addr, d, cfg); err != nil {
		log.Fatal(err)
	}
}

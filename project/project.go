package project

import (
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/config"
	"github.com/sammargh/gfdmtools/pack"
	"github.com/sammargh/gfdmtools/pack/aebg"
	"github.com/sammargh/gfdmtools/pack/fcn"
	"github.com/sammargh/gfdmtools/pack/obj"
	"github.com/sammargh/gfdmtools/render"
	"github.com/sammargh/gfdmtools/sink"
	"github.com/sammargh/gfdmtools/sprite"
	"github.com/sammargh/gfdmtools/vfs"
)

// Project is an animation resolved against its sprite archive.
type Project struct {
	Name     string
	File     *aebg.File
	Timeline *aebg.Timeline
	Sprites  *sprite.Library
}

func New(name string, f *aebg.File, sprites *sprite.Library, names aebg.NameTable, cfg config.Render) (*Project, error) {
	tl, err := aebg.Resolve(f, aebg.Options{Names: names, SkipUnknown: cfg.SkipUnknownOpcodes})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to resolve '%s'", name)
	}
	return &Project{Name: name, File: f, Timeline: tl, Sprites: sprites}, nil
}

func instance(d vfs.Directory, name string) (interface{}, error) {
	if found, ok := vfs.DirectoryFind(d, name); ok {
		name = found
	}
	return pack.GetInstanceHandler(d, name)
}

// Load opens the DAT and FCN files of d. objName selects an object table used as the
// animation name table. It is looked up in the archive first and then in d.
func Load(d vfs.Directory, datName, fcnName, objName string, cfg config.Render) (*Project, error) {
	inst, err := instance(d, datName)
	if err != nil {
		return nil, err
	}
	f, ok := inst.(*aebg.File)
	if !ok {
		return nil, errors.Errorf("'%s' is not an animation", datName)
	}

	inst, err = instance(d, fcnName)
	if err != nil {
		return nil, err
	}
	archive, ok := inst.(*fcn.Archive)
	if !ok {
		return nil, errors.Errorf("'%s' is not an archive", fcnName)
	}
	lib, err := sprite.FromDirectory(archive)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to index sprites of '%s'", fcnName)
	}

	var names aebg.NameTable
	if objName != "" {
		table, err := LoadNames(objName, archive, d)
		if err != nil {
			return nil, err
		}
		names = table
	}

	name := strings.TrimSuffix(datName, path.Ext(datName))
	return New(name, f, lib, names, cfg)
}

// LoadNames reads the object table objName from the first directory holding it.
func LoadNames(objName string, dirs ...vfs.Directory) (aebg.Names, error) {
	for _, d := range dirs {
		found, ok := vfs.DirectoryFind(d, objName)
		if !ok {
			continue
		}
		inst, err := pack.GetInstanceHandler(d, found)
		if err != nil {
			return nil, err
		}
		o, ok := inst.(*obj.OBJ)
		if !ok {
			return nil, errors.Errorf("'%s' is not an object table", objName)
		}
		return aebg.Names(o.Names()), nil
	}
	return nil, errors.Errorf("Object table '%s' not found", objName)
}

func (p *Project) Compositor(cfg config.Render) (*render.Compositor, error) {
	if !p.Timeline.HasCanvas {
		return nil, render.ErrNoCanvas
	}
	return render.NewCompositor(p.Timeline.Canvas, p.Sprites, cfg), nil
}

func (p *Project) Render(s sink.Sink, cfg config.Render) error {
	return render.Render(p.Timeline, p.Sprites, s, cfg)
}

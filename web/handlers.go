package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/config"
	"github.com/sammargh/gfdmtools/pack"
	"github.com/sammargh/gfdmtools/project"
	"github.com/sammargh/gfdmtools/status"
	"github.com/sammargh/gfdmtools/utils"
	"github.com/sammargh/gfdmtools/vfs"
	"github.com/sammargh/gfdmtools/webutils"
)

func (s *Server) HandlerAjaxPack(w http.ResponseWriter, r *http.Request) {
	if files, err := vfs.SortedList(s.Directory); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, files)
	}
}

func (s *Server) HandlerAjaxPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	data, err := pack.GetInstanceHandler(s.Directory, file)
	if err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, data)
	}
}

// renderConfig is the server render config with the upscale query override.
func (s *Server) renderConfig(r *http.Request) (config.Render, error) {
	cfg := s.Config.Render
	if v := r.URL.Query().Get("upscale"); v != "" {
		u, err := strconv.Atoi(v)
		if err != nil || u < 1 || u > 16 {
			return cfg, errors.Errorf("Invalid upscale %q", v)
		}
		cfg.Upscale = u
	}
	return cfg, nil
}

// project returns the resolved animation of the request, loading it on first use.
func (s *Server) project(r *http.Request) (*project.Project, error) {
	vars := mux.Vars(r)
	obj := r.URL.Query().Get("obj")
	key := vars["dat"] + "|" + vars["fcn"] + "|" + obj

	s.lock.Lock()
	p, ok := s.projects[key]
	s.lock.Unlock()
	if ok {
		return p, nil
	}

	status.Info("Loading %s with %s", vars["dat"], vars["fcn"])
	p, err := project.Load(s.Directory, vars["dat"], vars["fcn"], obj, s.Config.Render)
	if err != nil {
		status.Error("Failed to load %s: %v", vars["dat"], err)
		return nil, err
	}
	status.Info("Loaded %s: %d ticks, %d issues", p.Name, p.Timeline.Len(), len(p.File.Issues)+len(p.Timeline.Issues))

	s.lock.Lock()
	s.projects[key] = p
	s.lock.Unlock()
	return p, nil
}

type timelineInfo struct {
	Name      string
	Canvas    interface{}
	HasCanvas bool
	Ticks     []int
	Issues    []string
	Sprites   []string
	States    interface{} `json:",omitempty"`
}

func (s *Server) HandlerAjaxTimeline(w http.ResponseWriter, r *http.Request) {
	p, err := s.project(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	info := timelineInfo{
		Name:      p.Name,
		Canvas:    p.Timeline.Canvas,
		HasCanvas: p.Timeline.HasCanvas,
		Ticks:     p.Timeline.Ticks(),
		Sprites:   p.Sprites.Names(),
	}
	for _, issues := range [][]error{p.File.Issues, p.Timeline.Issues} {
		for _, issue := range issues {
			info.Issues = append(info.Issues, issue.Error())
		}
	}
	if r.URL.Query().Get("states") != "" {
		info.States = p.Timeline.Export()
	}
	webutils.WriteJson(w, &info)
}

func (s *Server) HandlerFrame(w http.ResponseWriter, r *http.Request) {
	tick, err := strconv.Atoi(mux.Vars(r)["tick"])
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	cfg, err := s.renderConfig(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	p, err := s.project(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	c, err := p.Compositor(cfg)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WritePNG(w, c.Compose(tick, p.Timeline.At(tick)))
}

func (s *Server) HandlerDumpPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if r.URL.Query().Get("format") == "spew" {
		data, err := pack.GetInstanceHandler(s.Directory, file)
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		utils.Dump(w, data)
		return
	}

	f, err := vfs.DirectoryGetFile(s.Directory, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	reader, err := vfs.OpenFileAndGetReader(f)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	defer f.Close()
	webutils.WriteFile(w, reader, f.Name())
}

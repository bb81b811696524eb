package web

import (
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/sammargh/gfdmtools/config"
	"github.com/sammargh/gfdmtools/project"
	"github.com/sammargh/gfdmtools/status"
	"github.com/sammargh/gfdmtools/vfs"
)

type Server struct {
	Directory vfs.Directory
	Config    *config.Config

	lock     sync.Mutex
	projects map[string]*project.Project
}

func NewServer(d vfs.Directory, cfg *config.Config) *Server {
	return &Server{Directory: d, Config: cfg, projects: make(map[string]*project.Project)}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/pack", s.HandlerAjaxPack)
	r.HandleFunc("/json/pack/{file}", s.HandlerAjaxPackFile)
	r.HandleFunc("/json/timeline/{dat}/{fcn}", s.HandlerAjaxTimeline)
	r.HandleFunc("/frame/{dat}/{fcn}/{tick:[0-9]+}", s.HandlerFrame)
	r.HandleFunc("/dump/pack/{file}", s.HandlerDumpPackFile)
	r.HandleFunc("/ws/status", status.Default.ServeWS)
	return r
}

func StartServer(addr string, d vfs.Directory, cfg *config.Config) error {
	s := NewServer(d, cfg)

	h := handlers.RecoveryHandler()(s.Router())
	h = handlers.LoggingHandler(os.Stdout, h)
	h = handlers.CompressHandler(h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}

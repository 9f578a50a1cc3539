// Package httpserver registers the web routes and renders the HTML
// pages over the film and gear stores.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/aussierobb78/Filmlog/internal/db"
	"github.com/aussierobb78/Filmlog/internal/images"
	"github.com/aussierobb78/Filmlog/internal/web"
)

// recentRolls is how many rolls the index shows without a search query.
const recentRolls = 5

// Server holds the application state shared by all handlers. The store
// is swapped during backup import, so access goes through store().
type Server struct {
	Logger   *slog.Logger
	Renderer *web.Renderer
	Images   *images.Store
	DataDir  string

	// The bind address and port this process is actually serving on,
	// compared against the persisted settings to flag a needed restart.
	RunningHost string
	RunningPort int

	MaxUploadBytes int64

	// Shutdown stops the daemon; wired by the caller.
	Shutdown func()

	mu sync.Mutex
	db *db.DB
}

// New constructs a server around an open store.
func New(d *db.DB, lg *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("db is required")
	}
	if lg == nil {
		return nil, errors.New("logger is required")
	}
	rnd, err := web.New()
	if err != nil {
		return nil, err
	}
	return &Server{Logger: lg, Renderer: rnd, db: d}, nil
}

// Handler builds the full route table with logging and panic recovery.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/add", s.handleAddRollForm).Methods(http.MethodGet)
	r.HandleFunc("/add", s.handleAddRoll).Methods(http.MethodPost)
	r.HandleFunc("/roll/{id:[0-9]+}", s.handleRollDetail).Methods(http.MethodGet)
	r.HandleFunc("/edit/{id:[0-9]+}", s.handleEditRollForm).Methods(http.MethodGet)
	r.HandleFunc("/edit/{id:[0-9]+}", s.handleEditRoll).Methods(http.MethodPost)
	r.HandleFunc("/delete/{id:[0-9]+}", s.handleDeleteRoll).Methods(http.MethodPost)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	r.HandleFunc("/gear", s.handleGearIndex).Methods(http.MethodGet)
	r.HandleFunc("/gear/add", s.handleAddGearForm).Methods(http.MethodGet)
	r.HandleFunc("/gear/add", s.handleAddGear).Methods(http.MethodPost)
	r.HandleFunc("/gear/delete/{id:[0-9]+}", s.handleDeleteGear).Methods(http.MethodPost)

	r.HandleFunc("/preferences", s.handlePreferences).Methods(http.MethodGet)
	r.HandleFunc("/toggle_feature/{key}", s.handleToggleFeature).Methods(http.MethodPost)
	r.HandleFunc("/save_advanced", s.handleSaveAdvanced).Methods(http.MethodPost)

	r.HandleFunc("/backup", s.handleBackup).Methods(http.MethodGet)
	r.HandleFunc("/import_backup", s.handleImportBackup).Methods(http.MethodPost)
	r.HandleFunc("/images/{filename}", s.handleImage).Methods(http.MethodGet)
	r.HandleFunc("/generate_labels", s.handleGenerateLabels).Methods(http.MethodPost)
	r.HandleFunc("/shutdown", s.handleShutdown).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(s.notFound)

	return s.withRecover(s.withRequestLog(r))
}

// store returns the current database handle.
func (s *Server) store() *db.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// globals assembles the per-page values every template receives.
func (s *Server) globals(ctx context.Context) web.Globals {
	d := s.store()

	gearEnabled, err := d.GetFlag(ctx, db.SettingGearLog)
	if err != nil {
		s.Logger.Error("read gear flag", "err", err)
	}

	port, ok, err := d.GetSetting(ctx, db.SettingServerPort)
	if err != nil {
		s.Logger.Error("read server_port", "err", err)
	}
	if !ok {
		port = "5000"
	}
	host, ok, err := d.GetSetting(ctx, db.SettingServerHost)
	if err != nil {
		s.Logger.Error("read server_host", "err", err)
	}
	if !ok {
		host = "0.0.0.0"
	}

	pending := port != strconv.Itoa(s.RunningPort) || host != s.RunningHost

	return web.Globals{
		GearEnabled:    gearEnabled,
		CurrentPort:    port,
		CurrentHost:    host,
		PendingChanges: pending,
	}
}

// render executes a page template, logging render failures.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name, title, errMsg string, data any) {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	p := web.Page{
		Title:   title,
		Globals: s.globals(r.Context()),
		Error:   errMsg,
		Data:    data,
	}
	if err := s.Renderer.Render(w, name, p); err != nil {
		s.Logger.Error("render page", "template", name, "err", err)
	}
}

// notFound renders the shared 404 page.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound.html", "Not Found", "", "The requested page does not exist.")
}

// serverError answers unexpected failures with the raw error text, the
// same way the forms surface database errors.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// pathID parses the numeric {id} route variable.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// maxUpload bounds multipart bodies; zero means the 64MB default.
func (s *Server) maxUpload() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return 64 << 20
}

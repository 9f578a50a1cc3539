package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/aussierobb78/Filmlog/internal/db"
)

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "preferences.html", "Preferences", "", nil)
}

func (s *Server) handleToggleFeature(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if err := s.store().ToggleFlag(r.Context(), key); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/preferences", http.StatusSeeOther)
}

// handleSaveAdvanced persists the network settings. The daemon keeps
// serving on its startup values; the restart banner appears once the
// persisted values differ.
func (s *Server) handleSaveAdvanced(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.serverError(w, r, err)
		return
	}

	port := strings.TrimSpace(r.FormValue("server_port"))
	if _, err := strconv.Atoi(port); err != nil {
		port = "5000"
	}

	// "network" exposes the app to the LAN; anything else stays local.
	host := "127.0.0.1"
	if r.FormValue("server_host") == "network" {
		host = "0.0.0.0"
	}

	ctx := r.Context()
	if err := s.store().SetSetting(ctx, db.SettingServerPort, port); err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.store().SetSetting(ctx, db.SettingServerHost, host); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/preferences", http.StatusSeeOther)
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	s.Logger.Info("shutdown requested", "remote", r.RemoteAddr)
	w.Header().Set("content-type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("FilmLog is shutting down.\n"))
	if s.Shutdown != nil {
		go s.Shutdown()
	}
}

package httpserver

import (
	"net/http"
	"strings"

	"github.com/aussierobb78/Filmlog/internal/db"
)

// gearEnabled checks the feature flag gating the gear pages.
func (s *Server) gearEnabled(r *http.Request) (bool, error) {
	return s.store().GetFlag(r.Context(), db.SettingGearLog)
}

func (s *Server) handleGearIndex(w http.ResponseWriter, r *http.Request) {
	on, err := s.gearEnabled(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !on {
		// Feature disabled: send the visitor home instead of erroring.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	items, err := s.store().ListGear(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "gear.html", "Gear", "", map[string]any{"Gear": items})
}

func (s *Server) handleAddGearForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "add_gear.html", "Add Gear", "", nil)
}

func (s *Server) handleAddGear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.serverError(w, r, err)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	hwType := strings.TrimSpace(r.FormValue("hardware_type"))
	serial := strings.TrimSpace(r.FormValue("serial_number"))
	if name == "" || hwType == "" {
		s.render(w, r, http.StatusOK, "add_gear.html", "Add Gear", "Name and category are required.", nil)
		return
	}
	if _, err := s.store().CreateGear(r.Context(), name, hwType, serial); err != nil {
		s.render(w, r, http.StatusOK, "add_gear.html", "Add Gear", "Database error: "+err.Error(), nil)
		return
	}
	http.Redirect(w, r, "/gear", http.StatusSeeOther)
}

func (s *Server) handleDeleteGear(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.notFound(w, r)
		return
	}
	_, ok, err := s.store().GetGear(r.Context(), id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !ok {
		s.notFound(w, r)
		return
	}
	if err := s.store().DeleteGear(r.Context(), id); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/gear", http.StatusSeeOther)
}

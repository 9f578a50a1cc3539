package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aussierobb78/Filmlog/internal/db"
	"github.com/aussierobb78/Filmlog/internal/images"
)

// rollForm carries the raw submitted values so validation failures can
// re-render the form with everything the user typed.
type rollForm struct {
	IDStr        string
	FilmType     string
	ISOStr       string
	Camera       string
	Lens         string
	DateStarted  string
	DateFinished string
	Notes        string
}

func readRollForm(r *http.Request) rollForm {
	return rollForm{
		IDStr:        strings.TrimSpace(r.FormValue("roll_id")),
		FilmType:     strings.TrimSpace(r.FormValue("film_type")),
		ISOStr:       strings.TrimSpace(r.FormValue("iso")),
		Camera:       strings.TrimSpace(r.FormValue("camera")),
		Lens:         strings.TrimSpace(r.FormValue("lens")),
		DateStarted:  strings.TrimSpace(r.FormValue("date_started")),
		DateFinished: strings.TrimSpace(r.FormValue("date_finished")),
		Notes:        r.FormValue("notes"),
	}
}

// validate converts the form into a roll, reporting the first problem
// as a user-facing message.
func (f rollForm) validate(fallbackID int64) (*db.Roll, error) {
	roll := db.Roll{
		ID:       fallbackID,
		FilmType: f.FilmType,
		Camera:   f.Camera,
		Lens:     f.Lens,
		Notes:    f.Notes,
	}
	if f.IDStr != "" {
		if id, err := strconv.ParseInt(f.IDStr, 10, 64); err == nil && id > 0 {
			roll.ID = id
		}
	}
	if roll.FilmType == "" {
		return nil, errors.New("Film type is required.")
	}
	if f.ISOStr != "" {
		iso, err := strconv.ParseInt(f.ISOStr, 10, 64)
		if err != nil || iso <= 0 {
			return nil, errors.New("ISO must be a positive number.")
		}
		roll.ISO = iso
	}
	var err error
	if roll.DateStarted, err = parseDate(f.DateStarted); err != nil {
		return nil, errors.New("Start date must be YYYY-MM-DD.")
	}
	if roll.DateFinished, err = parseDate(f.DateFinished); err != nil {
		return nil, errors.New("Finish date must be YYYY-MM-DD.")
	}
	return &roll, nil
}

// parseDate validates an optional ISO date and normalizes it.
func parseDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		rolls []db.Roll
		err   error
	)
	if q != "" {
		rolls, err = s.store().SearchRolls(ctx, q)
	} else {
		rolls, err = s.store().ListRecentRolls(ctx, recentRolls)
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "index.html", "Film Log", "", map[string]any{
		"Query": q,
		"Rolls": rolls,
	})
}

// addRollData loads everything the add form needs: the suggested next
// id plus the autocomplete lists.
func (s *Server) addRollData(r *http.Request, f rollForm, nextID int64) (map[string]any, error) {
	ctx := r.Context()
	films, err := s.store().DistinctFilms(ctx)
	if err != nil {
		return nil, err
	}
	cameras, err := s.store().DistinctCameras(ctx)
	if err != nil {
		return nil, err
	}
	lenses, err := s.store().DistinctLenses(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"NextID":       nextID,
		"Films":        films,
		"Cameras":      cameras,
		"Lenses":       lenses,
		"FilmType":     f.FilmType,
		"ISO":          f.ISOStr,
		"Camera":       f.Camera,
		"Lens":         f.Lens,
		"DateStarted":  f.DateStarted,
		"DateFinished": f.DateFinished,
		"Notes":        f.Notes,
	}, nil
}

func (s *Server) handleAddRollForm(w http.ResponseWriter, r *http.Request) {
	nextID, err := s.store().NextRollID(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data, err := s.addRollData(r, rollForm{}, nextID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "add_roll.html", "Add Roll", "", data)
}

func (s *Server) handleAddRoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload())
	if err := r.ParseMultipartForm(s.maxUpload()); err != nil {
		s.serverError(w, r, err)
		return
	}

	nextID, err := s.store().NextRollID(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	f := readRollForm(r)

	rerender := func(msg string) {
		data, derr := s.addRollData(r, f, nextID)
		if derr != nil {
			s.serverError(w, r, derr)
			return
		}
		s.render(w, r, http.StatusOK, "add_roll.html", "Add Roll", msg, data)
	}

	roll, err := f.validate(nextID)
	if err != nil {
		rerender(err.Error())
		return
	}

	filename, err := s.saveUploadedImage(r)
	if err != nil {
		rerender("Could not save contact sheet: " + err.Error())
		return
	}
	roll.ContactSheet = filename

	switch err := s.store().CreateRoll(ctx, roll); {
	case errors.Is(err, db.ErrRollExists):
		rerender(fmt.Sprintf("Roll #%04d already exists in the database.", roll.ID))
	case err != nil:
		// Surface the raw database error on the form.
		rerender("Database error: " + err.Error())
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleRollDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.notFound(w, r)
		return
	}
	roll, ok, err := s.store().GetRoll(r.Context(), id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !ok {
		s.notFound(w, r)
		return
	}
	s.render(w, r, http.StatusOK, "roll_detail.html", "Roll "+roll.FormattedID(), "", map[string]any{"Roll": roll})
}

// editRollData loads the edit form payload for a roll.
func (s *Server) editRollData(r *http.Request, roll *db.Roll) (map[string]any, error) {
	ctx := r.Context()
	films, err := s.store().DistinctFilms(ctx)
	if err != nil {
		return nil, err
	}
	cameras, err := s.store().DistinctCameras(ctx)
	if err != nil {
		return nil, err
	}
	lenses, err := s.store().DistinctLenses(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Roll":    roll,
		"Films":   films,
		"Cameras": cameras,
		"Lenses":  lenses,
	}, nil
}

func (s *Server) handleEditRollForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.notFound(w, r)
		return
	}
	roll, ok, err := s.store().GetRoll(r.Context(), id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !ok {
		s.notFound(w, r)
		return
	}
	data, err := s.editRollData(r, roll)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "edit_roll.html", "Edit Roll "+roll.FormattedID(), "", data)
}

func (s *Server) handleEditRoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		s.notFound(w, r)
		return
	}
	roll, ok, err := s.store().GetRoll(ctx, id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !ok {
		s.notFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload())
	if err := r.ParseMultipartForm(s.maxUpload()); err != nil {
		s.serverError(w, r, err)
		return
	}
	f := readRollForm(r)

	rerender := func(msg string) {
		data, derr := s.editRollData(r, roll)
		if derr != nil {
			s.serverError(w, r, derr)
			return
		}
		s.render(w, r, http.StatusOK, "edit_roll.html", "Edit Roll "+roll.FormattedID(), msg, data)
	}

	updated, err := f.validate(id)
	if err != nil {
		rerender(err.Error())
		return
	}
	updated.ID = id

	// Replace the image only when a new file arrives; the previous file
	// stays on disk.
	updated.ContactSheet = roll.ContactSheet
	filename, err := s.saveUploadedImage(r)
	if err != nil {
		rerender("Could not save contact sheet: " + err.Error())
		return
	}
	if filename != "" {
		updated.ContactSheet = filename
	}

	if err := s.store().UpdateRoll(ctx, updated); err != nil {
		rerender("Database error: " + err.Error())
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/roll/%d", id), http.StatusSeeOther)
}

func (s *Server) handleDeleteRoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		s.notFound(w, r)
		return
	}
	roll, ok, err := s.store().GetRoll(ctx, id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !ok {
		s.notFound(w, r)
		return
	}

	// Best effort: a missing or undeletable image never blocks the
	// roll deletion.
	if roll.ContactSheet != "" && s.Images != nil {
		if err := s.Images.Remove(roll.ContactSheet); err != nil {
			s.Logger.Warn("remove contact sheet", "file", roll.ContactSheet, "err", err)
		}
	}

	if err := s.store().DeleteRoll(ctx, id); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	total, err := s.store().CountRolls(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	cameras, err := s.store().TopCameras(ctx, 5)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	films, err := s.store().TopFilms(ctx, 5)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "stats.html", "Stats", "", map[string]any{
		"TotalRolls": total,
		"Cameras":    cameras,
		"Films":      films,
	})
}

// saveUploadedImage stores the contact_sheet form file, if any. An
// absent file or one with a disallowed extension yields an empty name,
// matching the original form behavior of quietly skipping it.
func (s *Server) saveUploadedImage(r *http.Request) (string, error) {
	if s.Images == nil {
		return "", nil
	}
	file, hdr, err := r.FormFile("contact_sheet")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	if hdr.Filename == "" || !images.Allowed(hdr.Filename) {
		return "", nil
	}
	return s.Images.Save(file, hdr.Filename)
}

package httpserver

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aussierobb78/Filmlog/internal/backup"
	"github.com/aussierobb78/Filmlog/internal/db"
)

// imagesDir resolves the image directory even when no store is wired.
func (s *Server) imagesDir() string {
	if s.Images != nil {
		return s.Images.Dir
	}
	return filepath.Join(s.DataDir, "Images")
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	includeImages := r.URL.Query().Get("images") == "true"

	// Flush WAL pages so the copied files carry the latest writes.
	if err := s.store().Checkpoint(r.Context()); err != nil {
		s.serverError(w, r, err)
		return
	}

	name := backup.ArchiveName(includeImages, time.Now())
	w.Header().Set("content-type", "application/zip")
	w.Header().Set("content-disposition", `attachment; filename="`+name+`"`)

	if err := backup.Export(w, s.DataDir, s.imagesDir(), includeImages); err != nil {
		// Headers are out already; all that is left is logging.
		s.Logger.Error("backup export", "err", err)
	}
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload())
	if err := r.ParseMultipartForm(s.maxUpload()); err != nil {
		s.serverError(w, r, err)
		return
	}

	file, hdr, err := r.FormFile("backup_file")
	if err != nil || !strings.HasSuffix(strings.ToLower(hdr.Filename), ".zip") {
		http.Redirect(w, r, "/preferences", http.StatusSeeOther)
		return
	}
	defer file.Close()

	// Stage the upload on disk so extraction does not depend on the
	// request's form buffers while the database is closed.
	staging := filepath.Join(s.DataDir, "import_"+uuid.NewString()+".zip")
	if err := writeStaging(staging, file); err != nil {
		s.serverError(w, r, err)
		return
	}
	defer func() { _ = os.Remove(staging) }()

	if err := s.restore(staging); err != nil {
		s.Logger.Error("backup import", "err", err)
		http.Error(w, "Error importing backup: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.Logger.Info("backup imported", "archive", hdr.Filename)
	http.Redirect(w, r, "/preferences?restart=true", http.StatusSeeOther)
}

// restore closes the open database files, extracts the archive over
// them, and reopens the store. Extraction is not transactional; the
// reopen happens even when extraction fails so the app stays usable.
func (s *Server) restore(archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		s.Logger.Warn("close store before import", "err", err)
	}

	impErr := backup.Import(f, st.Size(), s.DataDir, s.imagesDir())

	nd, err := db.Open(context.Background(), s.DataDir)
	if err != nil {
		return err
	}
	s.db = nd
	return impErr
}

func writeStaging(path string, src io.Reader) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return err
	}
	return out.Close()
}

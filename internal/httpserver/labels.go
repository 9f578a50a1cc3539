package httpserver

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/aussierobb78/Filmlog/internal/labels"
)

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	path, err := s.Images.Path(name)
	if err != nil {
		s.notFound(w, r)
		return
	}
	if _, err := os.Stat(path); err != nil {
		s.notFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleGenerateLabels(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.serverError(w, r, err)
		return
	}
	start, count := labels.ParseRequest(r.FormValue("start_num"), r.FormValue("label_count"))

	name := fmt.Sprintf("labels_%d_to_%d.pdf", start, labels.End(start, count))
	w.Header().Set("content-type", "application/pdf")
	w.Header().Set("content-disposition", `attachment; filename="`+name+`"`)

	if err := labels.Generate(w, labels.AveryL7651(), start, count); err != nil {
		s.Logger.Error("generate labels", "start", start, "count", count, "err", err)
	}
}

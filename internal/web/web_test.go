// Package web tests ensure every embedded template parses and renders.
package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aussierobb78/Filmlog/internal/db"
)

// TestAllTemplatesRender executes each page with representative data.
func TestAllTemplatesRender(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	roll := db.Roll{ID: 4, FilmType: "HP5", ISO: 400, Camera: "AE-1", ContactSheet: "x.jpg"}
	g := Globals{GearEnabled: true, CurrentPort: "5000", CurrentHost: "0.0.0.0", PendingChanges: true}

	data := map[string]any{
		"index.html":       map[string]any{"Query": "HP5", "Rolls": []db.Roll{roll}},
		"add_roll.html":    map[string]any{"NextID": int64(5), "Films": []string{"HP5"}, "Cameras": []string{}, "Lenses": []string{}, "FilmType": "", "ISO": "", "Camera": "", "Lens": "", "DateStarted": "", "DateFinished": "", "Notes": ""},
		"roll_detail.html": map[string]any{"Roll": roll},
		"edit_roll.html":   map[string]any{"Roll": roll, "Films": []string{}, "Cameras": []string{}, "Lenses": []string{}},
		"stats.html":       map[string]any{"TotalRolls": int64(3), "Cameras": []db.NameCount{{Name: "AE-1", Count: 2}}, "Films": []db.NameCount{}},
		"gear.html":        map[string]any{"Gear": []db.Gear{{ID: 1, Name: "AE-1", HardwareType: "Camera"}}},
		"add_gear.html":    nil,
		"preferences.html": nil,
		"notfound.html":    "roll not found",
	}

	for _, name := range pageNames {
		var buf bytes.Buffer
		err := r.Render(&buf, name, Page{Title: "t", Globals: g, Data: data[name]})
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("render %s: empty output", name)
		}
	}
}

// TestRollDetailShowsPaddedID keeps the printed label format on screen.
func TestRollDetailShowsPaddedID(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	roll := db.Roll{ID: 4, FilmType: "HP5"}
	if err := r.Render(&buf, "roll_detail.html", Page{Globals: Globals{}, Data: map[string]any{"Roll": roll}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "#0004") {
		t.Fatalf("expected zero-padded roll number in output")
	}
}

// Package console is a thin, read-only HTTP surface over the ranker
// (spec.md §2's presentation-surface collaborator), grounded on the
// teacher's console/ package shape: an unrolled/render-backed JSON API
// routed with gorilla/mux. The teacher's link-browsing/domain-exclusion
// CRUD UI has no equivalent here — this project's console only ever
// reads from the ranker, it never mutates crawl state.
package console

import (
	"net/http"

	"github.com/emsotr/arama-cekirdegi/internal/logging"
	"github.com/unrolled/render"
)

// Render is the global render.Render object used by every controller.
var Render *render.Render

// BuildRender constructs Render for JSON-only responses; this surface has
// no HTML templates since it exists purely to serve search results.
func BuildRender() {
	Render = render.New(render.Options{
		IndentJSON: true,
	})
}

func replyServerError(w http.ResponseWriter, err error) {
	logging.Error("console: internal error: %v", err)
	Render.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

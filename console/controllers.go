package console

import (
	"context"
	"net/http"
	"strconv"

	"github.com/emsotr/arama-cekirdegi/rank"
)

// searcher is satisfied by both *rank.Ranker and *rank.QueryCache, so the
// console can be handed either a bare ranker or a cache-fronted one.
type searcher interface {
	Search(ctx context.Context, query string, k int) ([]rank.Document, int, error)
}

// Route pairs a path with its handler, grounded on the teacher's
// Route/Routes shape in console/controllers.go.
type Route struct {
	Path       string
	Controller func(w http.ResponseWriter, req *http.Request)
}

// DefaultK is the result count returned when the caller omits "k".
const DefaultK = 20

// searchResult is the query interface's record shape, per spec.md §6:
// {url, title, description, score}.
type searchResult struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	Total   int            `json:"total"`
}

// Routes returns the routing table for a ranker-backed query server.
func Routes(ranker searcher) []Route {
	return []Route{
		{Path: "/", Controller: HomeController},
		{Path: "/search", Controller: SearchController(ranker)},
	}
}

// HomeController reports readiness; this surface has no templates to
// render, so it returns a minimal JSON status document.
func HomeController(w http.ResponseWriter, req *http.Request) {
	Render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SearchController answers spec.md §6's query interface: a
// whitespace-joined query string in "q", returning ranked records plus
// the total candidate count.
func SearchController(ranker searcher) func(w http.ResponseWriter, req *http.Request) {
	return func(w http.ResponseWriter, req *http.Request) {
		query := req.URL.Query().Get("q")
		if query == "" {
			Render.JSON(w, http.StatusBadRequest, map[string]string{"error": "missing q parameter"})
			return
		}

		k := DefaultK
		if raw := req.URL.Query().Get("k"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				k = parsed
			}
		}

		docs, total, err := ranker.Search(req.Context(), query, k)
		if err != nil {
			replyServerError(w, err)
			return
		}

		resp := searchResponse{Total: total, Results: make([]searchResult, len(docs))}
		for i, doc := range docs {
			resp.Results[i] = searchResult{
				URL:         doc.URL,
				Title:       doc.Title,
				Description: doc.Description,
				Score:       doc.Score,
			}
		}
		Render.JSON(w, http.StatusOK, resp)
	}
}

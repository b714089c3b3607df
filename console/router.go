package console

import (
	"github.com/gorilla/mux"
)

// NewRouter builds a mux.Router over Routes, grounded on the teacher's
// route-registration loop (walker's cmd.go built one the same way for
// console/controllers.go's Routes()).
func NewRouter(ranker searcher) *mux.Router {
	router := mux.NewRouter()
	for _, route := range Routes(ranker) {
		router.HandleFunc(route.Path, route.Controller)
	}
	return router
}

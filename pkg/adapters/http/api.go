package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	GetHealth(w http.ResponseWriter, r *http.Request)
	GetInfo(w http.ResponseWriter, r *http.Request)
	ListTables(w http.ResponseWriter, r *http.Request)
	GetTable(w http.ResponseWriter, r *http.Request, name string)
	GetTableState(w http.ResponseWriter, r *http.Request, name string)
	PatchTableState(w http.ResponseWriter, r *http.Request, name string)
	ReplaceTableState(w http.ResponseWriter, r *http.Request, name string)
	ResetTableState(w http.ResponseWriter, r *http.Request, name string)
	GetTableRows(w http.ResponseWriter, r *http.Request, name string)
	SubscribeTableEvents(w http.ResponseWriter, r *http.Request, name string, params SubscribeTableEventsParams)
}

// SubscribeTableEventsParams holds the query parameters of subscribeTableEvents.
type SubscribeTableEventsParams struct {
	// Watch restricts the stream to diffs touching one of these keys.
	Watch []string
}

// tableHandler is an operation scoped to one table.
type tableHandler func(w http.ResponseWriter, r *http.Request, name string)

// HandlerFromMux mounts si on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	r.Get("/health", si.GetHealth)
	r.Get("/info", si.GetInfo)
	r.Get("/tables", si.ListTables)

	r.Route("/tables/{name}", func(r chi.Router) {
		r.Get("/", withTableName(si.GetTable))
		r.Get("/state", withTableName(si.GetTableState))
		r.Patch("/state", withTableName(si.PatchTableState))
		r.Put("/state", withTableName(si.ReplaceTableState))
		r.Post("/state/reset", withTableName(si.ResetTableState))
		r.Get("/rows", withTableName(si.GetTableRows))
		r.Get("/events", withTableName(func(w http.ResponseWriter, r *http.Request, name string) {
			var params SubscribeTableEventsParams
			if err := runtime.BindQueryParameter("form", false, false, "watch", r.URL.Query(), &params.Watch); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid format for parameter watch: %v", err))
				return
			}
			si.SubscribeTableEvents(w, r, name, params)
		}))
	})

	return r
}

func withTableName(next tableHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var name string
		if err := runtime.BindStyledParameterWithLocation("simple", false, "name", runtime.ParamLocationPath, chi.URLParam(r, "name"), &name); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid format for parameter name: %v", err))
			return
		}
		next(w, r, name)
	}
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/emrgen/pagepurge/internal/module"
	"github.com/emrgen/pagepurge/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Purger is the part of the purge service exposed over HTTP.
type Purger interface {
	IsDeletable(ctx context.Context, ns int, title string) (bool, error)
	Submit(ctx context.Context, actorName string, ns int, title string) (*service.Report, error)
}

type purgeableResponse struct {
	Namespace int    `json:"namespace"`
	Title     string `json:"title"`
	Purgeable bool   `json:"purgeable"`
}

type reportResponse struct {
	PageID            int64            `json:"page_id"`
	Namespace         int              `json:"namespace"`
	Title             string           `json:"title"`
	Rows              map[string]int64 `json:"rows"`
	Revisions         int              `json:"revisions"`
	ArchivedRevisions int              `json:"archived_revisions"`
	ContentDeleted    int64            `json:"content_deleted"`
	ContentKept       int64            `json:"content_kept"`
	UnmappedAddresses int64            `json:"unmapped_addresses,omitempty"`
	ExternalBlobs     int              `json:"external_blobs,omitempty"`
	FileStatus        string           `json:"file_status,omitempty"`
	FileKeysCleaned   []string         `json:"file_keys_cleaned,omitempty"`
	Categories        []string         `json:"categories,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newReportResponse(r *service.Report) reportResponse {
	return reportResponse{
		PageID:            r.Page.ID,
		Namespace:         r.Page.Namespace,
		Title:             r.Page.Title,
		Rows:              r.Rows,
		Revisions:         r.Revisions,
		ArchivedRevisions: r.ArchivedRevisions,
		ContentDeleted:    r.ContentDeleted,
		ContentKept:       r.ContentKept,
		UnmappedAddresses: r.UnmappedAddresses,
		ExternalBlobs:     r.ExternalBlobs,
		FileStatus:        r.FileStatus,
		FileKeysCleaned:   r.FileKeysCleaned,
		Categories:        r.Categories,
	}
}

// NewRouter registers the purge routes. Purge requests must carry a bearer
// token the verifier accepts.
func NewRouter(purger Purger, verifier module.TokenVerifier) *mux.Router {
	h := &handler{purger: purger}

	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1/pages").Subrouter()
	v1.HandleFunc("/{ns:-?[0-9]+}/{title:.+}/purgeable", h.purgeable).Methods(http.MethodGet)
	v1.Handle("/{ns:-?[0-9]+}/{title:.+}/purge", module.RequireActor(verifier)(http.HandlerFunc(h.purge))).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	return r
}

type handler struct {
	purger Purger
}

func pageVars(r *http.Request) (int, string, error) {
	vars := mux.Vars(r)
	ns, err := strconv.Atoi(vars["ns"])
	if err != nil {
		return 0, "", err
	}

	return ns, vars["title"], nil
}

func (h *handler) purgeable(w http.ResponseWriter, r *http.Request) {
	ns, title, err := pageVars(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ok, err := h.purger.IsDeletable(r.Context(), ns, title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, purgeableResponse{Namespace: ns, Title: title, Purgeable: ok})
}

func (h *handler) purge(w http.ResponseWriter, r *http.Request) {
	ns, title, err := pageVars(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	actor, err := module.ActorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	report, err := h.purger.Submit(r.Context(), actor, ns, title)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, newReportResponse(report))
	case errors.Is(err, service.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, service.ErrNotDeletable):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

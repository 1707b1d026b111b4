package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"datastage"
)

// threadIDHeader carries the chat thread the action host invoked us for.
const threadIDHeader = "X-INVOKED_FOR_THREAD_ID"

// newRouter wires the four actions as POST endpoints returning plain text.
func newRouter(store *datastage.Store, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	r.Route("/actions", func(r chi.Router) {
		r.Post("/load_data", handleLoadData(store, log))
		r.Post("/query", handleQuery(store))
		r.Post("/cleanup", handleCleanup(store))
		r.Post("/return_my_thread_id", handleThreadID)
	})

	return r
}

// handleLoadData materializes an attachment as a table. Load failures are
// the one hard-failure path in the API: the agent needs an unambiguous
// signal that the filename was unusable.
func handleLoadData(store *datastage.Store, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := r.FormValue("filename")

		report, err := store.Load(r.Context(), filename)
		if err != nil {
			log.Warn("load_data failed", "filename", filename, "error", err)
			status := http.StatusUnprocessableEntity
			if errors.Is(err, datastage.ErrEmptyFilename) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}
		writeText(w, report)
	}
}

// handleQuery executes ad-hoc SQL. Always answers 200: engine errors come
// back as descriptive text for the agent to rephrase against.
func handleQuery(store *datastage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := store.Query(r.Context(), r.FormValue("sql_query"))
		writeText(w, result.Report)
	}
}

// handleCleanup deletes the store file. Always answers 200.
func handleCleanup(store *datastage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := store.Cleanup(r.Context())
		writeText(w, result.Report)
	}
}

// handleThreadID echoes the thread ID the action host invoked us for.
func handleThreadID(w http.ResponseWriter, r *http.Request) {
	writeText(w, fmt.Sprintf("Thread id = %s", r.Header.Get(threadIDHeader)))
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, body)
}

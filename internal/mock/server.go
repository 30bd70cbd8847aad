package mock

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/csrent/csrent-cli/internal/resource"
)

// NewRouter serves /space and /user on top of store.
func NewRouter(store *Store, logger *slog.Logger) http.Handler {
	h := &handler{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Heartbeat("/ping"))

	r.Route("/space", func(r chi.Router) {
		r.Get("/", h.listSpaces)
		r.Post("/", h.createSpace)
		r.Get("/{id}", h.getSpace)
		r.Put("/{id}", h.updateSpace)
		r.Delete("/{id}", h.deleteSpace)
	})
	r.Route("/user", func(r chi.Router) {
		r.Get("/", h.listUsers)
		r.Post("/", h.createUser)
		r.Get("/{id}", h.getUser)
		r.Put("/{id}", h.updateUser)
		r.Delete("/{id}", h.deleteUser)
	})
	return r
}

type handler struct {
	store  *Store
	logger *slog.Logger
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if h.logger == nil {
			return
		}
		h.logger.Info("request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func (h *handler) listSpaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListSpaces())
}

func (h *handler) getSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sp, err := h.store.GetSpace(id)
	h.respond(w, http.StatusOK, sp, err, "space")
}

func (h *handler) createSpace(w http.ResponseWriter, r *http.Request) {
	var in resource.SpaceInput
	if !decode(w, r, &in) {
		return
	}
	sp, err := h.store.CreateSpace(in)
	h.respond(w, http.StatusCreated, sp, err, "space")
}

func (h *handler) updateSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in resource.SpaceInput
	if !decode(w, r, &in) {
		return
	}
	sp, err := h.store.UpdateSpace(id, in)
	h.respond(w, http.StatusOK, sp, err, "space")
}

func (h *handler) deleteSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusNoContent, nil, h.store.DeleteSpace(id), "space")
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListUsers())
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.store.GetUser(id)
	h.respond(w, http.StatusOK, u, err, "user")
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var in resource.UserInput
	if !decode(w, r, &in) {
		return
	}
	if in.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}
	u, err := h.store.CreateUser(in)
	h.respond(w, http.StatusCreated, u, err, "user")
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in resource.UserInput
	if !decode(w, r, &in) {
		return
	}
	u, err := h.store.UpdateUser(id, in)
	h.respond(w, http.StatusOK, u, err, "user")
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusNoContent, nil, h.store.DeleteUser(id), "user")
}

func (h *handler) respond(w http.ResponseWriter, status int, body any, err error, kind string) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, kind+" not found")
	case err != nil:
		if h.logger != nil {
			h.logger.Error("store failure", slog.String("resource", kind), slog.Any("error", err))
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	case status == http.StatusNoContent:
		w.WriteHeader(status)
	default:
		writeJSON(w, status, body)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (resource.ID, bool) {
	n, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return resource.ID(n), true
}

// decode reads a JSON body into dst and runs its validate tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := resource.Validate(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

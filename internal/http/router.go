package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library mux; the surface is three fixed routes,
// so no third-party router is warranted.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterJobRoutes wires the scheduled-job entry point. The handler does its
// own verb check so non-POST gets the contract's 405 body.
func (r *Router) RegisterJobRoutes(h *JobHandler) {
	r.Handle("/dcv/api/v1/sync", h.Handle)
}

// RegisterReferenceRoutes wires the read (GET) and write (POST) reference
// endpoints onto one path.
func (r *Router) RegisterReferenceRoutes(read *ReadHandler, write *WriteHandler) {
	r.Handle("/dcv/api/v1/reference", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			read.Handle(w, req)
		case http.MethodPost:
			write.Handle(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterHealthRoute answers load-balancer probes.
func (r *Router) RegisterHealthRoute() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

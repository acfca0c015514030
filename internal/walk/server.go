package walk

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"bigmap/internal/core"
	"bigmap/internal/screens"
)

// RouterConfig contains the dependencies of the debug router.
type RouterConfig struct {
	Walker *Walker

	// Gatherer backs /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer

	// DragLimit and DragBurst throttle the mutating routes.
	DragLimit rate.Limit
	DragBurst int

	CORSOrigins    []string
	DisableLogging bool
}

// NewRouter constructs the debug API. It starts no goroutines.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	limit, burst := cfg.DragLimit, cfg.DragBurst
	if limit == 0 {
		limit = 20
	}
	if burst <= 0 {
		burst = 40
	}
	h := &handlers{walker: cfg.Walker}
	r.Route("/api", func(r chi.Router) {
		r.Get("/screens", h.handleScreens)
		r.Get("/stats", h.handleStats)
		r.Group(func(r chi.Router) {
			r.Use(limitRequests(rate.NewLimiter(limit, burst)))
			r.Post("/drag", h.handleDrag)
			r.Post("/home", h.handleHome)
		})
	})
	return r
}

func limitRequests(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				writeError(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type handlers struct {
	walker *Walker
}

type indexJSON struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type screenJSON struct {
	indexJSON
	First string `json:"first"`
	Last  string `json:"last"`
}

type screensResponse struct {
	Anchor  indexJSON    `json:"anchor"`
	OffsetX float64      `json:"offset_x"`
	OffsetZ float64      `json:"offset_z"`
	Steps   int          `json:"steps"`
	Screens []screenJSON `json:"screens"`
}

type moveResponse struct {
	From    indexJSON   `json:"from"`
	To      indexJSON   `json:"to"`
	Evicted []indexJSON `json:"evicted"`
	Built   []indexJSON `json:"built"`
}

func toJSON(idx core.ScreenIndex) indexJSON { return indexJSON{Row: idx.Row, Col: idx.Col} }

func toJSONList(list []core.ScreenIndex) []indexJSON {
	out := make([]indexJSON, 0, len(list))
	for _, idx := range list {
		out = append(out, toJSON(idx))
	}
	return out
}

func (h *handlers) handleScreens(w http.ResponseWriter, r *http.Request) {
	st := h.walker.State()
	geom := h.walker.geom
	resp := screensResponse{
		Anchor:  toJSON(st.Anchor),
		OffsetX: st.Offset.X,
		OffsetZ: st.Offset.Z,
		Steps:   st.Steps,
		Screens: make([]screenJSON, 0, len(st.Present)),
	}
	for _, idx := range st.Present {
		resp.Screens = append(resp.Screens, screenJSON{
			indexJSON: toJSON(idx),
			First:     geom.CellCoordinate(idx, 0, 0).String(),
			Last:      geom.CellCoordinate(idx, geom.ScreenRows-1, geom.ScreenCols-1).String(),
		})
	}
	writeJSON(w, resp)
}

func (h *handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.walker.Snapshot())
}

func (h *handlers) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DX int `json:"dx"`
		DY int `json:"dy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	mv, err := h.walker.Drag(req.DX, req.DY)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, moveJSON(mv))
}

func (h *handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	mv, err := h.walker.Home()
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, moveJSON(mv))
}

func moveJSON(mv screens.Move) moveResponse {
	return moveResponse{
		From:    toJSON(mv.From),
		To:      toJSON(mv.To),
		Evicted: toJSONList(mv.Evicted),
		Built:   toJSONList(mv.Built),
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

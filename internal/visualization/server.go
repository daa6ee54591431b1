package visualization

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mucar/barw/internal/store"
)

// Server serves stored runs as browsable pages and a small JSON API.
type Server struct {
	store      *store.RunStore
	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
	addr       string
}

// NewServer creates a new run visualization server.
func NewServer(rs *store.RunStore) *Server {
	return &Server{store: rs}
}

// Addr returns the address the server is listening on (e.g., "localhost:PORT").
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// ListenAndServe starts the HTTP server on an OS-assigned port and blocks
// until the context is cancelled. Returns nil on clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/run", s.handleRun)
	mux.HandleFunc("/api/run", s.handleAPIRun)

	// Let the OS pick a free port.
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: mux}
	s.mu.Unlock()

	// Graceful shutdown when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>barw runs</title></head>
<body>
<h1>Stored runs</h1>
{{if .}}
<table border="1" cellpadding="4">
<tr><th>id</th><th>prob</th><th>fc</th><th>fs</th><th>tmax</th><th>seed</th><th>steps</th><th>points</th><th>created</th></tr>
{{range .}}
<tr>
  <td><a href="/run?id={{.ID}}">{{.ID}}</a></td>
  <td>{{.Prob}}</td><td>{{.FC}}</td><td>{{.FS}}</td>
  <td>{{.TMax}}</td><td>{{.Seed}}</td><td>{{.Steps}}</td><td>{{.Points}}</td>
  <td>{{.CreatedAt.Format "2006-01-02 15:04:05"}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No runs stored yet. Use "barw run" to create one.</p>
{{end}}
</body>
</html>
`))

var runTemplate = template.Must(template.New("run").Parse(`<!DOCTYPE html>
<html>
<head><title>barw run {{.Meta.ID}}</title></head>
<body>
<p><a href="/">&larr; all runs</a></p>
<h1>Run {{.Meta.ID}}</h1>
<p>prob={{.Meta.Prob}} fc={{.Meta.FC}} fs={{.Meta.FS}} seed={{.Meta.Seed}}
steps={{.Meta.Steps}} points={{.Meta.Points}}</p>
{{.SVG}}
</body>
</html>
`))

// handleIndex lists all stored runs.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		http.Error(w, "list error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexTemplate.Execute(w, runs)
}

// handleRun renders one run's network as an inline SVG page.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id, ok := s.runID(w, r)
	if !ok {
		return
	}

	meta, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		http.Error(w, "run not found: "+err.Error(), http.StatusNotFound)
		return
	}
	res, err := s.store.LoadResult(r.Context(), id)
	if err != nil {
		http.Error(w, "load error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	runTemplate.Execute(w, struct {
		Meta store.RunMeta
		SVG  template.HTML
	}{meta, template.HTML(RenderSVG(res))})
}

// handleAPIRun returns one run's full histories as JSON.
func (s *Server) handleAPIRun(w http.ResponseWriter, r *http.Request) {
	id, ok := s.runID(w, r)
	if !ok {
		return
	}

	res, err := s.store.LoadResult(r.Context(), id)
	if err != nil {
		http.Error(w, "run not found: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (s *Server) runID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		http.Error(w, "missing 'id' query parameter", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.Error(w, "invalid 'id' query parameter", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

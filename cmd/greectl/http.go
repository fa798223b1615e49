package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const statusTmpl = `<!DOCTYPE html>
<html>
<head><title>greectl</title></head>
<body>
<pre id="status">{{.InitialJSON}}</pre>
</body>
</html>
`

var statuspage = template.Must(template.New("status").Parse(statusTmpl))

func handleIndex(r *Remote) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			http.NotFound(w, req)
			return
		}
		j, err := r.Snapshot()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data := struct{ InitialJSON string }{InitialJSON: string(j)}
		if err := statuspage.ExecuteTemplate(w, "status", data); err != nil {
			log.Error("Status page: ", err)
		}
	}
}

func handleStatus(r *Remote) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		j, err := r.Snapshot()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(j)
	}
}

func handleTimings(r *Remote) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(r.Timings()); err != nil {
			log.Error("Timings: ", err)
		}
	}
}

// NewMux routes the status page, JSON endpoints and metrics
func NewMux(r *Remote) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleIndex(r))
	mux.HandleFunc("/status", handleStatus(r))
	mux.HandleFunc("/timings", handleTimings(r))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// JSONClient serves HTTP until ctx is canceled. The caller adds to wg.
func JSONClient(ctx context.Context, wg *sync.WaitGroup, port string, r *Remote) {
	defer func() {
		log.Trace("HTTP server calling done on main wait group")
		wg.Done()
	}()
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%s", port),
		Handler: NewMux(r),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP shutdown: ", err)
		}
	}()

	log.Debugf("JSON server starting on port %s ...", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(err)
	}
	log.Trace("HTTP server stopped")
}

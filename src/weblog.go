package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"RealEstateReport/src/storage"
)

// logHandler transmite as mensagens do log em tempo real para o cliente
func logHandler(logger *storage.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Transfer-Encoding", "chunked")

		logChan := logger.Subscribe()
		for {
			select {
			case msg := <-logChan:
				if _, err := fmt.Fprintln(w, msg); err != nil {
					// cliente desconectado
					return
				}
				if f, ok := w.(http.Flusher); ok {
					f.Flush()
				}
			case <-r.Context().Done():
				return
			}
		}
	}
}

// startWebUI serve /logs em addr até o contexto terminar
func startWebUI(ctx context.Context, addr string, logger *storage.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/logs", logHandler(logger))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("servidor de log: " + err.Error())
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("log disponível em http://" + addr + "/logs")
	return srv
}

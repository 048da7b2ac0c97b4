// Command rapidanswerd runs the voice assistant websocket server.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rapidanswer/rapidanswer-core/internal/config"
	"github.com/rapidanswer/rapidanswer-core/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	handler := otelhttp.NewHandler(server.New(cfg).Handler(), "rapidanswerd")

	slog.Info("Listening", "addr", cfg.Server.Addr())
	if err := http.ListenAndServe(cfg.Server.Addr(), handler); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

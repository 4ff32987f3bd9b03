package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"timepick-cli/internal/metrics"
	"timepick-cli/internal/session"
	"timepick-cli/internal/web"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the pickers over a JSON HTTP API",
		Long: strings.TrimSpace(`
Serve the form's pickers over HTTP so a browser-side widget can use the same rules.
Prometheus metrics are exposed at /metrics.
`),
		Example: strings.TrimSpace(`
# Serve on the configured address (web.addr, default 127.0.0.1:8765)
timepick web

# Serve on another port
timepick web --addr :9000
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(gin.ReleaseMode)

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := metrics.New(registry)

			sess, cfg, err := openSession(cmd, app, session.Options{Observer: m}, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = cfg.Web.Addr
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			srv := web.New(sess, web.Config{
				Addr:      listenAddr,
				RateLimit: cfg.Web.RateLimit,
				Burst:     cfg.Web.Burst,
			}, sess.Log, m, registry)

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String() + "/api/pickers"

			_ = writeOut(cmd, app, map[string]any{
				"addr":      ln.Addr().String(),
				"url":       url,
				"dir":       resolveDir(app, cfg),
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "timepick web running at %s\n", url)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Serve(ctx, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port)")
	return cmd
}

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orderdesk/orderdesk/internal/auth"
	"github.com/orderdesk/orderdesk/internal/server"
)

const banner = `
  ___          _           ___          _
 / _ \ _ _ __| |___ _ _  |   \ ___ ___| |__
| (_) | '_/ _' / -_) '_| | |) / -_|_-<| / /
 \___/|_| \__,_\___|_|   |___/\___/__/|_\_\
`

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the OrderDesk API server",
		Long:  "Start the HTTP server that exposes the authentication and order management API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging, CORS *)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, dev bool) error {
	fmt.Print(banner)
	fmt.Println()

	logLevel := slog.LevelInfo
	if dev {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// 1. Open the store
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	logger.Info("store opened", "driver", storeDriver())

	// 2. Build the auth service
	mode, err := auth.ParseMode(authMode())
	if err != nil {
		return err
	}
	jwtSecret := viper.GetString("auth.jwt_secret")
	if mode == auth.ModeBearer && jwtSecret == "" {
		jwtSecret = "orderdesk-dev-secret-change-me"
		logger.Warn("auth.jwt_secret not set, using insecure development default")
	}
	authSvc := auth.New(st, auth.Options{
		Mode:       mode,
		JWTSecret:  jwtSecret,
		TokenTTL:   viper.GetDuration("auth.token_ttl"),
		SessionTTL: viper.GetDuration("auth.session_ttl"),
	})

	// 3. First-run check
	hasAdmin, err := st.HasAnyAdmin(cmd_ctx())
	if err != nil {
		logger.Warn("failed to check for admin", "error", err)
	}
	if !hasAdmin {
		logger.Warn("no admin account found - run: orderdesk admin create")
	}

	// 4. Build and start HTTP server
	srvCfg := server.DefaultConfig()
	srvCfg.Host = host
	srvCfg.Port = port
	srvCfg.SecureCookies = viper.GetBool("server.secure_cookies")
	if origins := viper.GetStringSlice("server.cors_origins"); len(origins) > 0 {
		srvCfg.CORSOrigins = origins
	}
	if dev {
		srvCfg.CORSOrigins = []string{"*"}
		srvCfg.SecureCookies = false
	}
	if limit := viper.GetInt("auth.login_rate_limit"); limit > 0 {
		srvCfg.LoginRateLimit = limit
	}
	if timeout := viper.GetDuration("server.shutdown_timeout"); timeout > 0 {
		srvCfg.ShutdownTimeout = timeout
	}

	srv := server.New(srvCfg, st, authSvc, logger)

	if err := writePID(os.Getpid()); err != nil {
		logger.Warn("failed to write PID file", "error", err)
	}
	defer removePID()

	fmt.Printf("→ OrderDesk %s\n", versionString())
	fmt.Printf("→ Listening on http://%s:%d\n", host, port)
	fmt.Printf("→ Auth mode:  %s\n", mode)
	fmt.Printf("→ Health:     http://%s:%d/healthz\n", host, port)
	fmt.Println()

	start := time.Now()
	err = srv.ListenAndServe()
	logger.Info("server exited", "uptime", time.Since(start).Round(time.Second))
	return err
}

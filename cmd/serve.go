package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/webui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "host to bind the web interface to (default from server.host)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from server.port)")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func serve(cmd *cobra.Command) {
	config, logger := setup()
	defer logger.Sync()

	logger.Info("starting the assessment-finder web ui", zap.String("version", version))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	flow, err := newFlow(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the finder", zap.Error(err))
	}

	serverCfg := webui.DefaultServerConfig()
	if s := config.Server; s != nil {
		serverCfg.Host = s.Host
		serverCfg.Port = s.Port
		serverCfg.ReadTimeout = s.ReadTimeout
		serverCfg.WriteTimeout = s.WriteTimeout
		serverCfg.ShutdownTimeout = s.ShutdownTimeout
		serverCfg.RatePerMinute = s.RatePerMinute
		serverCfg.TrustProxy = s.TrustProxy
		if len(s.AllowedOrigins) > 0 {
			serverCfg.AllowedOrigins = s.AllowedOrigins
		}
	}

	defaults := webui.Defaults{Options: uiOptions(config.UI)}
	if config.UI != nil {
		defaults.Theme = config.UI.Theme
	}

	server, err := webui.NewServer(serverCfg, flow, defaults, logger.Named("webui"))
	if err != nil {
		logger.Fatal("creating the web ui server", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		logger.Fatal("running the web ui", zap.Error(err))
	}
}

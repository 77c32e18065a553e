package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching engine over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config, pool, engine := prepare(ctx, "")
	logger.Info("starting the jobmatch server", zap.String("version", version))

	srv := server.New(pool, engine, server.Options{
		MaxConcurrent:  config.Server.MaxConcurrent,
		RequestTimeout: config.Server.RequestTimeout,
		RecommendTopN:  config.Recommend.TopN,
		SimilarTopN:    config.Similar.TopN,
		ScanTopN:       config.Scan.TopN,
	}, logger)

	if err := srv.Run(ctx, config.Server.Addr); err != nil {
		logger.Fatal("serving http", zap.Error(err))
	}
}

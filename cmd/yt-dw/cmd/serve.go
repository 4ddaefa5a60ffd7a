package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/TEGAR-SRC/yt-dw/internal/cache"
	"github.com/TEGAR-SRC/yt-dw/internal/config"
	"github.com/TEGAR-SRC/yt-dw/internal/extractor"
	"github.com/TEGAR-SRC/yt-dw/internal/ffmpeg"
	internalhttp "github.com/TEGAR-SRC/yt-dw/internal/http"
	"github.com/TEGAR-SRC/yt-dw/internal/http/handlers"
	"github.com/TEGAR-SRC/yt-dw/internal/httpclient"
	"github.com/TEGAR-SRC/yt-dw/internal/pipeline"
	"github.com/TEGAR-SRC/yt-dw/internal/planner"
	"github.com/TEGAR-SRC/yt-dw/internal/resolver"
	"github.com/TEGAR-SRC/yt-dw/internal/util"
	"github.com/TEGAR-SRC/yt-dw/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the yt-dw server",
	Long: `Start the yt-dw HTTP server.

The server provides:
- GET /api/v1/info     resolved format catalog for a content URL
- GET /download        streaming delivery at a requested quality
- GET /health          liveness and system metrics`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("ffmpeg-path", "", "Path to the ffmpeg binary (empty = auto-detect)")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("ffmpeg.binary_path", serveCmd.Flags().Lookup("ffmpeg-path"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ffmpegInfo, err := ffmpeg.Detect(ctx, cfg.FFmpeg.BinaryPath)
	if err != nil {
		return fmt.Errorf("detecting ffmpeg: %w", err)
	}
	logger.Info("ffmpeg detected",
		slog.String("path", ffmpegInfo.Path),
		slog.String("version", ffmpegInfo.Version),
	)

	ytdlpPath := cfg.Extractor.YtDlpPath
	if ytdlpPath == "" {
		if found, err := util.FindBinary("yt-dlp", "YTDW_YTDLP_BINARY"); err == nil {
			ytdlpPath = found
		} else {
			// The secondary backend is best-effort; resolution still works
			// from the primary catalog alone.
			logger.Warn("yt-dlp not found, secondary backend disabled in practice")
			ytdlpPath = "yt-dlp"
		}
	}

	upstream := httpclient.New(httpclient.Config{
		Timeout:       cfg.Extractor.PrimaryTimeout,
		RetryAttempts: cfg.Extractor.RetryAttempts,
		Logger:        logger,
	})

	primary := extractor.NewPrimaryClient(upstream.StandardClient(), cfg.Extractor.PrimaryTimeout, logger)
	secondary := extractor.NewSecondaryClient(ytdlpPath, cfg.Extractor.SecondaryTimeout, logger)
	resultCache := cache.New(cfg.Cache.TTL, logger)
	plnr := planner.New(resultCache, upstream, logger)
	assembler := pipeline.New(ffmpegInfo.Path, cfg.FFmpeg.Preset, cfg.FFmpeg.AudioBitrate, logger)
	rslv := resolver.New(primary, secondary, resultCache, plnr, assembler, logger)

	server := internalhttp.NewServer(cfg.Server, logger, version.Version)
	handlers.NewInfoHandler(rslv).Register(server.API())
	handlers.NewHealthHandler(version.Version, ffmpegInfo.Version).Register(server.API())
	handlers.NewDownloadHandler(rslv, logger).Register(server.Router())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start()
	})
	g.Go(func() error {
		select {
		case sig := <-sigChan:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-ctx.Done():
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	logger.Info("starting yt-dw server",
		slog.String("address", cfg.Server.Address()),
		slog.String("version", version.Version),
	)
	return g.Wait()
}

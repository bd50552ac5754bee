package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nodeforge/clashsub/internal/httpapi"
	"github.com/spf13/cobra"
)

var (
	serveListen            string
	serveReadHeaderTimeout time.Duration
	serveConvertTimeout    time.Duration
	serveFetchTimeout      time.Duration
	serveShutdownTimeout   time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 转换服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "127.0.0.1:25500", "HTTP 监听地址")
	serveCmd.Flags().DurationVar(&serveReadHeaderTimeout, "read-header-timeout", 5*time.Second, "HTTP ReadHeaderTimeout（请求头读取超时）")
	serveCmd.Flags().DurationVar(&serveConvertTimeout, "convert-timeout", 60*time.Second, "单次转换的总超时（包含远程拉取）")
	serveCmd.Flags().DurationVar(&serveFetchTimeout, "fetch-timeout", 15*time.Second, "单次远程拉取的超时")
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 10*time.Second, "收到退出信号后的优雅退出等待时间")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	srv := &http.Server{
		Addr: serveListen,
		Handler: httpapi.NewHandlerWithOptions(httpapi.Options{
			ConvertTimeout: serveConvertTimeout,
			FetchTimeout:   serveFetchTimeout,
		}),
		ReadHeaderTimeout: serveReadHeaderTimeout,
	}

	slog.Info("listening", "addr", "http://"+serveListen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")

		shCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			slog.Error("graceful shutdown failed", "err", err)
			_ = srv.Close()
		}

		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

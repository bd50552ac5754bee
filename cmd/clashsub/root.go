package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "clashsub",
	Short: "Clash 订阅转换器：分组、负载均衡与规则重写",
	Long: `clashsub 读取 Clash 订阅文档，按固定地区表或按节点名启发式
划分分组，生成带负载均衡策略与规则列表的新配置。

既可以作为 HTTP 服务运行（clashsub serve），也可以在命令行里
直接转换一份文档（clashsub convert）。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "日志级别（debug/info/warn/error）")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "日志格式（text/json）")
}

func setupLogging() error {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("不支持的 log-level：%s", logLevel)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch logFormat {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("不支持的 log-format：%s", logFormat)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

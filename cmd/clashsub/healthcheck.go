package main

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	healthcheckAddr    string
	healthcheckTimeout time.Duration
)

// healthcheckCmd probes the running server's /healthz endpoint. Meant for
// container HEALTHCHECK directives, so the exit code is the only contract.
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "探测运行中服务的 /healthz",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := deriveHealthzURL(healthcheckAddr)
		if err != nil {
			return err
		}
		return runHealthcheck(u, healthcheckTimeout)
	},
}

func init() {
	healthcheckCmd.Flags().StringVar(&healthcheckAddr, "addr", "127.0.0.1:25500", "服务监听地址或完整 URL")
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", 2*time.Second, "探测超时")
	rootCmd.AddCommand(healthcheckCmd)
}

func deriveHealthzURL(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("addr 不能为空")
	}
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/") + "/healthz", nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		// A bare port ("25500" or ":25500" already handled above by
		// SplitHostPort for the latter).
		port = addr
		host = ""
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s/healthz", net.JoinHostPort(host, port)), nil
}

func runHealthcheck(url string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

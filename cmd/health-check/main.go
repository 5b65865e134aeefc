// Package main probes a running server's health endpoint. It exits 0 while
// the reported status is acceptable, 1 when it is not and 2 when the
// endpoint cannot be reached.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pantrymatch/v1/internal/infrastructure/config"
	"github.com/pantrymatch/v1/pkg/healthcheck"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

type options struct {
	URL           string
	ConfigPath    string
	Timeout       time.Duration
	Retries       int
	RetryDelay    time.Duration
	AllowDegraded bool
	Verbose       bool
}

func main() {
	opts := options{}
	flag.StringVar(&opts.URL, "url", "", "Health endpoint URL, defaults to the configured server address")
	flag.StringVar(&opts.ConfigPath, "config", "", "Configuration file path")
	flag.DurationVar(&opts.Timeout, "timeout", 5*time.Second, "Request timeout")
	flag.IntVar(&opts.Retries, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&opts.RetryDelay, "retry-delay", time.Second, "Delay between retries")
	flag.BoolVar(&opts.AllowDegraded, "allow-degraded", true, "Treat a degraded status as success")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Print every check")
	flag.Parse()

	if opts.URL == "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitCodeError)
		}
		host := cfg.Server.Host
		if host == "" || host == "0.0.0.0" {
			host = "localhost"
		}
		opts.URL = fmt.Sprintf("http://%s:%d%s", host, cfg.Server.Port, cfg.Monitoring.HealthCheckPath)
	}

	os.Exit(probe(opts))
}

func probe(opts options) int {
	var (
		resp *healthcheck.Response
		err  error
	)
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			time.Sleep(opts.RetryDelay)
		}
		resp, err = fetch(opts.URL, opts.Timeout)
		if err == nil && acceptable(resp.Status, opts.AllowDegraded) {
			break
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
		return exitCodeError
	}

	fmt.Printf("%s: %s (version %s)\n", opts.URL, resp.Status, resp.Version)
	if opts.Verbose {
		for _, check := range resp.Checks {
			fmt.Printf("  %-10s %-9s %s\n", check.Name, check.Status, check.Message)
		}
	}

	if !acceptable(resp.Status, opts.AllowDegraded) {
		return exitCodeFailure
	}
	return exitCodeSuccess
}

func acceptable(status healthcheck.Status, allowDegraded bool) bool {
	return status == healthcheck.StatusHealthy || (allowDegraded && status == healthcheck.StatusDegraded)
}

func fetch(url string, timeout time.Duration) (*healthcheck.Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var body healthcheck.Response
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", res.Status, err)
	}
	return &body, nil
}

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/guidepost/panel/internal/seeder"
)

// Default configuration constants.
const (
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		sessionKey = flag.String("session", "", "Session key (default: random)")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Print product summaries after each step")
	)
	flag.Parse()

	key := *sessionKey
	if key == "" {
		key = "seed-" + uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seeder.Config{
		BaseURL:    *baseURL,
		SessionKey: key,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}
	if err := seeder.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/courier/cli/config"
	"github.com/pithecene-io/courier/dispatch"
	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/log"
	"github.com/pithecene-io/courier/metrics"
	"github.com/pithecene-io/courier/transport"
	"github.com/pithecene-io/courier/types"
)

// Exit codes for send.
const (
	exitSuccess        = 0
	exitDeliveryFailed = 1
	exitConfigError    = 2
)

// SendCommand returns the send command.
// This is the only command that delivers messages.
func SendCommand() *cli.Command {
	flags := append(TransportFlags(),
		&cli.StringFlag{
			Name:  "subject",
			Usage: "Message subject line",
		},
		&cli.StringFlag{
			Name:  "body",
			Usage: "Message body",
		},
		&cli.StringFlag{
			Name:  "id",
			Usage: "Message ID (defaults to a generated UUID)",
		},
		&cli.StringSliceFlag{
			Name:  "attr",
			Usage: "Message attribute as 'key=value', repeatable",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress result output",
		},
	)

	return &cli.Command{
		Name:   "send",
		Usage:  "Deliver one message through a transport",
		Flags:  flags,
		Action: sendAction,
	}
}

func sendAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}

	kind := resolveKind(c, cfg)
	if kind == "" {
		return cli.Exit("transport kind required (--kind or config file)", exitConfigError)
	}

	settings, err := resolveSettings(c, cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}

	msg, err := buildMessage(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid message: %v", err), exitConfigError)
	}

	reg := dispatch.NewRegistry()
	tr, err := reg.New(kind, settings)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	defer iox.DiscardClose(tr)

	collector := metrics.NewCollector(kind, msg.ID)
	instrumented := transport.NewInstrumented(tr, kind, collector)
	logger := log.NewLogger(kind).WithMessage(msg.ID)

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	start := time.Now()
	deliverErr := instrumented.Deliver(ctx, msg)
	duration := time.Since(start)

	if deliverErr != nil {
		logger.Error("delivery failed", map[string]any{
			"error":    deliverErr.Error(),
			"duration": duration.String(),
		})
	} else {
		logger.Info("delivered", map[string]any{
			"rate":     instrumented.Rate(),
			"duration": duration.String(),
		})
	}

	if !c.Bool("quiet") {
		printSendResult(kind, instrumented.Rate(), collector.Snapshot(), duration, deliverErr)
	}

	if deliverErr != nil {
		return cli.Exit("", exitDeliveryFailed)
	}
	return cli.Exit("", exitSuccess)
}

// loadConfig reads the config file named by --config, if any.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}

// resolveKind applies flag-over-config precedence for the discriminator.
func resolveKind(c *cli.Context, cfg *config.Config) string {
	if c.IsSet("kind") {
		return c.String("kind")
	}
	if cfg != nil && cfg.Transport.Kind != "" {
		return cfg.Transport.Kind
	}
	return c.String("kind")
}

// resolveSettings merges config file defaults with CLI flag overrides.
// CLI flags always win over config values.
func resolveSettings(c *cli.Context, cfg *config.Config) (transport.Settings, error) {
	var s transport.Settings
	if cfg != nil {
		s = cfg.Transport.Settings()
	}

	if c.IsSet("api-key") {
		s.APIKey = c.String("api-key")
	}
	if c.IsSet("url") {
		s.URL = c.String("url")
	}
	if c.IsSet("channel") {
		s.Channel = c.String("channel")
	}
	if c.IsSet("bucket") {
		s.Bucket = c.String("bucket")
	}
	if c.IsSet("region") {
		s.Region = c.String("region")
	}
	if c.IsSet("prefix") {
		s.Prefix = c.String("prefix")
	}
	if c.IsSet("path") {
		s.Path = c.String("path")
	}
	if c.IsSet("header") {
		headers, err := parsePairs(c.StringSlice("header"))
		if err != nil {
			return s, fmt.Errorf("invalid --header: %w", err)
		}
		s.Headers = headers
	}
	if c.IsSet("timeout") {
		s.Timeout = c.Duration("timeout")
	}
	if c.IsSet("retries") {
		retries := c.Int("retries")
		s.Retries = &retries
	}

	return s, nil
}

// buildMessage constructs the message to deliver from CLI flags.
func buildMessage(c *cli.Context) (*types.Message, error) {
	msg := types.NewMessage(c.String("subject"), c.String("body"))
	if id := c.String("id"); id != "" {
		msg.ID = id
	}

	attrs, err := parsePairs(c.StringSlice("attr"))
	if err != nil {
		return nil, fmt.Errorf("invalid --attr: %w", err)
	}
	for k, v := range attrs {
		msg.SetAttribute(k, v)
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

// parsePairs parses repeated 'key=value' strings into a map.
func parsePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed pair %q, want key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}

func printSendResult(kind, rate string, snap metrics.Snapshot, duration time.Duration, deliverErr error) {
	status := "delivered"
	if deliverErr != nil {
		status = "failed"
	}

	fmt.Printf("\nmessage_id=%s, kind=%s, status=%s, duration=%s\n",
		snap.MessageID, kind, status, duration.Round(time.Millisecond))

	fmt.Printf("\n=== Delivery ===\n")
	fmt.Printf("Kind:       %s\n", kind)
	fmt.Printf("Rate:       %s\n", rate)
	fmt.Printf("Status:     %s\n", status)
	if deliverErr != nil {
		fmt.Printf("Error:      %v\n", deliverErr)
	}

	fmt.Printf("\n=== Metrics ===\n")
	fmt.Printf("Attempted:  %d\n", snap.DeliveriesAttempted)
	fmt.Printf("Succeeded:  %d\n", snap.DeliveriesSucceeded)
	fmt.Printf("Failed:     %d\n", snap.DeliveriesFailed)
}

// Package cmd provides CLI commands for the courier binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for the kinds command.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (kinds only)",
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can provide explicit error
// messages instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// TransportFlags returns the flags that feed the transport settings
// bundle. Shared by send and check; CLI flags override config values.
func TransportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "kind",
			Usage: "Transport kind (push, spool, webhook, redis, s3)",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to courier.yaml config file",
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "API key (push)",
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "Backend endpoint URL (push, webhook, redis)",
		},
		&cli.StringFlag{
			Name:  "channel",
			Usage: "Pub/sub channel (redis)",
		},
		&cli.StringFlag{
			Name:  "bucket",
			Usage: "Destination bucket (s3)",
		},
		&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region (s3)",
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "Object key prefix (s3)",
		},
		&cli.StringFlag{
			Name:  "path",
			Usage: "Spool directory (spool)",
		},
		&cli.StringSliceFlag{
			Name:  "header",
			Usage: "HTTP header as 'Name=Value' (webhook), repeatable",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-delivery timeout",
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "Retry attempts for retriable transports",
		},
	}
}

package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/courier/cli/render"
	"github.com/pithecene-io/courier/dispatch"
	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/transporttest"
)

// CheckResponse is the response for the check command.
type CheckResponse struct {
	Kind      string `json:"kind" yaml:"kind"`
	OK        bool   `json:"ok" yaml:"ok"`
	Rate      string `json:"rate,omitempty" yaml:"rate,omitempty"`
	Violation string `json:"violation,omitempty" yaml:"violation,omitempty"`
}

// CheckCommand returns the check command.
// Builds the configured transport and runs the read-only contract checks
// against it. No message is delivered.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:   "check",
		Usage:  "Verify a configured transport honors the delivery contract",
		Flags:  append(TransportFlags(), ReadOnlyFlags()...),
		Action: checkAction,
	}
}

func checkAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	// TUI not supported for check command
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for check command", 1)
	}

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

	tr, err := dispatch.NewRegistry().New(kind, settings)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	defer iox.DiscardClose(tr)

	resp := CheckResponse{Kind: kind, OK: true}
	if verr := transporttest.Check(tr); verr != nil {
		resp.OK = false
		resp.Violation = verr.Error()
	} else {
		resp.Rate = tr.Rate()
	}

	if err := r.Render(resp); err != nil {
		return err
	}
	if !resp.OK {
		return cli.Exit("", exitDeliveryFailed)
	}
	return nil
}

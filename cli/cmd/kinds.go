package cmd

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/courier/cli/render"
	"github.com/pithecene-io/courier/cli/tui"
	"github.com/pithecene-io/courier/dispatch"
	"github.com/pithecene-io/courier/transport"
)

// KindList is the kinds command payload.
type KindList []tui.KindRow

// Table implements render.Tabler.
func (k KindList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(k))
	for _, row := range k {
		rows = append(rows, []string{
			row.Kind,
			row.Summary,
			strings.Join(row.Required, ", "),
			strings.Join(row.Optional, ", "),
		})
	}
	return []string{"KIND", "SUMMARY", "REQUIRED", "OPTIONAL"}, rows
}

// KindsCommand returns the kinds command.
// Lists the registered transport kinds with their settings fields.
func KindsCommand() *cli.Command {
	return &cli.Command{
		Name:   "kinds",
		Usage:  "List registered transport kinds",
		Flags:  ReadOnlyFlags(),
		Action: kindsAction,
	}
}

func kindsAction(c *cli.Context) error {
	list := kindList(dispatch.NewRegistry())

	if c.Bool("tui") {
		return tui.RunKinds(list)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(list)
}

// kindList collects discovery metadata for every registered kind, sorted.
func kindList(reg *transport.Registry) KindList {
	kinds := reg.Kinds()
	list := make(KindList, 0, len(kinds))
	for _, kind := range kinds {
		info, err := reg.Describe(kind)
		if err != nil {
			continue
		}
		list = append(list, tui.KindRow{
			Kind:     kind,
			Summary:  info.Summary,
			Required: info.Required,
			Optional: info.Optional,
		})
	}
	return list
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/drawer"
	"github.com/zot/ui-shell/internal/loader"
	"github.com/zot/ui-shell/internal/modules"
	"github.com/zot/ui-shell/internal/registry"
	"github.com/zot/ui-shell/internal/router"
)

// inspectOutput is the --json form of inspect.
type inspectOutput struct {
	Generation uint64         `json:"generation"`
	Modules    []string       `json:"modules"`
	Routes     []router.Route `json:"routes"`
	Drawer     []drawer.Entry `json:"drawer"`
}

func newInspectCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the route table and drawer the configured modules produce",
		Args:  cobra.NoArgs,
	}
	flags := bindConfigFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of tables")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromFlags(flags)
		if err != nil {
			return err
		}
		snap, err := loadSnapshot(cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, inspectOutput{
				Generation: snap.Generation(),
				Modules:    snap.Modules(),
				Routes:     snap.Routes(),
				Drawer:     snap.List(),
			})
		}
		fmt.Fprintln(out, TitleStyle.Render("Routes"))
		fmt.Fprintln(out, routesTable(snap.Routes()))
		fmt.Fprintln(out)
		fmt.Fprintln(out, TitleStyle.Render("Drawer"))
		fmt.Fprint(out, drawerTree(snap.FlatDrawer()))
		return nil
	}
	return cmd
}

func newResolveCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a navigation path to its slot components",
		Args:  cobra.ExactArgs(1),
	}
	flags := bindConfigFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the match as JSON")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromFlags(flags)
		if err != nil {
			return err
		}
		snap, err := loadSnapshot(cfg)
		if err != nil {
			return err
		}
		m, err := snap.Match(args[0])
		if errors.Is(err, registry.ErrNotFound) {
			return &ExitError{Code: 2, Err: err}
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, m)
		}
		fmt.Fprintf(out, "%s %s %s\n", TitleStyle.Render(m.Route.Name), PathStyle.Render(m.Route.Path),
			SubtitleStyle.Render("("+m.Route.Module+")"))
		for _, name := range sortedSlots(m.Route.Slots) {
			fmt.Fprintf(out, "  %-10s %s\n", name, m.Route.Slots[name])
		}
		for _, k := range sortedKeys(m.Params) {
			fmt.Fprintf(out, "  %s %s=%s\n", SubtitleStyle.Render("param"), k, m.Params[k])
		}
		return nil
	}
	return cmd
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file|dir...]",
		Short: "Check that descriptors load and register without conflicts",
		Long: `Loads the builtin modules (unless --builtin=false) and either the configured
modules directory or the files and directories given as arguments, then
registers them together. Exits non-zero on the first problem.`,
	}
	flags := bindConfigFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromFlags(flags)
		if err != nil {
			return err
		}

		var descs []descriptor.Descriptor
		if len(args) == 0 {
			descs, err = modules.Load(cfg, loader.New(cfg))
		} else {
			descs, err = loadPaths(cfg, args)
		}
		if err == nil {
			var snap *registry.Snapshot
			snap, err = registry.New(cfg.Server.Base).Register(descs)
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓")+
					fmt.Sprintf(" %d modules, %d routes, %d drawer entries", len(snap.Modules()), len(snap.Routes()), len(snap.List())))
				return nil
			}
		}
		return &ExitError{Code: 1, Err: err}
	}
	return cmd
}

// loadPaths loads each file or directory in order, after the builtin modules.
func loadPaths(cfg *config.Config, paths []string) ([]descriptor.Descriptor, error) {
	var descs []descriptor.Descriptor
	if cfg.Modules.Builtin {
		descs = append(descs, modules.Builtin()...)
	}
	l := loader.New(cfg)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		var loaded []loader.Loaded
		if info.IsDir() {
			loaded, err = l.LoadDir(p)
		} else {
			loaded, err = l.LoadFile(p)
		}
		if err != nil {
			return nil, err
		}
		descs = append(descs, loader.Descriptors(loaded)...)
	}
	return descs, nil
}

func routesTable(routes []router.Route) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("ROUTE", "PATH", "MODULE", "SLOTS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range routes {
		t.Row(r.Name, r.Path, r.Module, formatSlots(r.Slots))
	}
	return t.Render()
}

func drawerTree(entries []drawer.FlatEntry) string {
	var b strings.Builder
	for _, e := range entries {
		label := string(e.Component)
		switch {
		case label == "":
			label = e.Label
		case e.Label != "":
			label += " " + SubtitleStyle.Render("\""+e.Label+"\"")
		}
		fmt.Fprintf(&b, "%s• %s %s\n", strings.Repeat("  ", e.Depth), label, SubtitleStyle.Render("("+e.Module+")"))
	}
	return b.String()
}

func formatSlots(slots descriptor.Slots) string {
	names := sortedSlots(slots)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + string(slots[n])
	}
	return strings.Join(parts, ", ")
}

func sortedSlots(slots descriptor.Slots) []string {
	names := slots.Names()
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

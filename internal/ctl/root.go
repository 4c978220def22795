// Package ctl implements the mo2sictl command line client for the mo2sid
// control API.
package ctl

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mo2sid/pkg/types"
)

func defaultAddr() string {
	if v := os.Getenv("MO2SICTL_ADDR"); v != "" {
		return v
	}
	return "http://127.0.0.1:8090"
}

// BuildRootCmd constructs the Cobra command tree. Output goes to out so
// tests can capture it.
func BuildRootCmd(out io.Writer) *cobra.Command {
	var addr string
	root := &cobra.Command{
		Use:           "mo2sictl",
		Short:         "Control a running mo2sid installer daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", defaultAddr(), "Base URL of the mo2sid API (defaults MO2SICTL_ADDR)")

	client := func() *Client { return NewClient(addr) }

	installCmd := &cobra.Command{
		Use:     "install <archive>...",
		Short:   "Enqueue archives for sequential installation",
		Example: "  mo2sictl install 01-CoolMod.7z.001 OtherMod.zip",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := make([]string, 0, len(args))
			for _, a := range args {
				abs, err := filepath.Abs(a)
				if err != nil {
					return err
				}
				paths = append(paths, abs)
			}
			var res types.EnqueueResult
			if err := client().postJSON(cmd.Context(), "/install", types.InstallRequest{Archives: paths}, &res); err != nil {
				return err
			}
			for _, p := range res.Accepted {
				fmt.Fprintf(out, "queued    %s\n", p)
			}
			for _, p := range res.Rejected {
				fmt.Fprintf(out, "rejected  %s\n", p)
			}
			if len(res.Accepted) == 0 {
				return fmt.Errorf("no archives accepted")
			}
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show queue and session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var st types.StatusResponse
			if err := client().getJSON(cmd.Context(), "/status", &st); err != nil {
				return err
			}
			fmt.Fprintf(out, "busy: %v\nqueue depth: %d\n", st.Busy, st.QueueDepth)
			for _, q := range st.Queue {
				fmt.Fprintf(out, "pending   %s\n", q)
			}
			for _, rep := range st.Processed {
				outcome := "ok"
				if rep.Err != "" {
					outcome = "failed: " + rep.Err
				}
				fmt.Fprintf(out, "done      %-20s %s\n", rep.ModName, outcome)
			}
			if st.LastError != "" {
				fmt.Fprintf(out, "last error: %s\n", st.LastError)
			}
			return nil
		},
	}

	modsCmd := &cobra.Command{
		Use:   "mods",
		Short: "List installed mods",
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Mods []types.Mod `json:"mods"`
			}
			if err := client().getJSON(cmd.Context(), "/mods", &res); err != nil {
				return err
			}
			for _, m := range res.Mods {
				fmt.Fprintf(out, "%-24s %s\n", m.Name, m.Path)
			}
			return nil
		},
	}

	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the pending install queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			var q struct {
				Busy  bool     `json:"busy"`
				Depth int      `json:"depth"`
				Queue []string `json:"queue"`
			}
			if err := client().getJSON(cmd.Context(), "/queue", &q); err != nil {
				return err
			}
			fmt.Fprintf(out, "busy: %v\ndepth: %d\n", q.Busy, q.Depth)
			for _, p := range q.Queue {
				fmt.Fprintf(out, "pending   %s\n", p)
			}
			return nil
		},
	}

	var settingsPlugin string
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or write persisted plugin settings",
	}
	settingsCmd.PersistentFlags().StringVar(&settingsPlugin, "plugin", "installmods", "Plugin whose settings to address")

	settingsGetCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a setting value (its default when unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Value string `json:"value"`
			}
			p := "/settings/" + url.PathEscape(settingsPlugin) + "/" + url.PathEscape(args[0])
			if err := client().getJSON(cmd.Context(), p, &res); err != nil {
				return err
			}
			fmt.Fprintln(out, res.Value)
			return nil
		},
	}

	settingsSetCmd := &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Store and persist a setting value",
		Example: "  mo2sictl settings set LastPath /home/me/downloads",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := struct {
				Value string `json:"value"`
			}{Value: args[1]}
			p := "/settings/" + url.PathEscape(settingsPlugin) + "/" + url.PathEscape(args[0])
			if err := client().putJSON(cmd.Context(), p, body, nil); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s = %s\n", args[0], args[1])
			return nil
		},
	}
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)

	engineCmd := &cobra.Command{
		Use:   "engine",
		Short: "Show where the daemon resolved the native engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				EnginePath string `json:"engine_path"`
			}
			if err := client().getJSON(cmd.Context(), "/engine", &res); err != nil {
				return err
			}
			fmt.Fprintln(out, res.EnginePath)
			return nil
		},
	}

	root.AddCommand(installCmd, queueCmd, statusCmd, modsCmd, settingsCmd, engineCmd)
	return root
}

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	root := BuildRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

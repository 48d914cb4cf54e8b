package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/spf13/cobra"

	"github.com/wallforfry/harbor/internal/ops"
	"github.com/wallforfry/harbor/internal/report"
)

// output returns the writer for cmd and whether it is an interactive
// terminal, with its width.
func output(cmd *cobra.Command) (io.Writer, bool, int, bool) {
	w := cmd.OutOrStdout()
	if f, ok := w.(*os.File); !ok || f != os.Stdout {
		return w, false, 80, false
	}
	t := term.FromEnv()
	width, _, err := t.Size()
	if err != nil || width <= 0 {
		width = 80
	}
	return w, t.IsTerminalOutput(), width, t.IsColorEnabled()
}

// parseImageRef splits "name[:tag]"; the tag defaults to latest. A colon
// before the last slash belongs to a registry port, not a tag.
func parseImageRef(ref string) (string, string, error) {
	name, tag := ref, "latest"
	if i := strings.LastIndex(ref, ":"); i > strings.LastIndex(ref, "/") {
		name, tag = ref[:i], ref[i+1:]
	}
	if name == "" || tag == "" {
		return "", "", fmt.Errorf("invalid image reference %q", ref)
	}
	return name, tag, nil
}

func newListCmd(e *env) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List repositories and tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := e.client.Catalog(ctx)
			if err != nil {
				return err
			}
			repos, err := ops.LoadRepositories(ctx, e.client, cat.Repositories, e.cfg.Concurrency)
			if repos == nil && err != nil {
				return err
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			w, isTTY, width, _ := output(cmd)
			n, err := report.Catalog(w, isTTY, width, repos, query)
			if err != nil {
				return err
			}
			if n == 0 && isTTY {
				fmt.Fprintln(cmd.ErrOrStderr(), "no images")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "filter", "f", "", "only show repositories containing this text (case-insensitive)")
	return cmd
}

func newInspectCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect IMAGE[:TAG]",
		Short: "Show the details of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, tag, err := parseImageRef(args[0])
			if err != nil {
				return err
			}
			img, err := e.client.Image(cmd.Context(), name, tag)
			if err != nil {
				return err
			}
			w, isTTY, width, _ := output(cmd)
			return report.Image(w, isTTY, width, img)
		},
	}
}

func newManifestCmd(e *env) *cobra.Command {
	var v1 bool
	cmd := &cobra.Command{
		Use:   "manifest IMAGE[:TAG]",
		Short: "Print the raw manifest of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, tag, err := parseImageRef(args[0])
			if err != nil {
				return err
			}
			schema := 2
			if v1 {
				schema = 1
			}
			raw, err := e.client.RawManifest(cmd.Context(), name, tag, schema)
			if err != nil {
				return err
			}
			w, isTTY, _, color := output(cmd)
			return report.JSON(w, raw, isTTY && color)
		},
	}
	cmd.Flags().BoolVar(&v1, "v1", false, "fetch the schema 1 manifest")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "harbor", version)
		},
	}
}

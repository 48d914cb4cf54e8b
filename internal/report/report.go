// Package report prints registry data for the non-interactive commands.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/cli/go-gh/v2/pkg/jsonpretty"
	"github.com/cli/go-gh/v2/pkg/tableprinter"

	"github.com/wallforfry/harbor/internal/filter"
	"github.com/wallforfry/harbor/internal/model"
	"github.com/wallforfry/harbor/internal/ops"
	"github.com/wallforfry/harbor/internal/ui"
)

// Catalog prints one line per repository/tag whose repository name
// matches query. It returns the number of lines printed.
func Catalog(w io.Writer, isTTY bool, width int, repos []model.Repository, query string) (int, error) {
	refs := ops.Flatten(repos)
	rows := make([]filter.Row, len(refs))
	for i, r := range refs {
		rows[i] = filter.Row{Cells: []string{r.Repository, r.Tag}, Visible: true}
	}
	filter.Apply(rows, query)

	tp := tableprinter.New(w, isTTY, width)
	if isTTY {
		tp.AddHeader([]string{"NAME", "TAG"})
	}
	n := 0
	for _, row := range filter.Visible(rows) {
		tag := row.Cells[1]
		if tag == "" {
			tag = "-"
		}
		tp.AddField(row.Cells[0])
		tp.AddField(tag, tableprinter.WithColor(colorIf(isTTY, ui.StyleInfo.Render)))
		tp.EndRow()
		n++
	}
	return n, tp.Render()
}

// Image prints the details of one image followed by its layers.
func Image(w io.Writer, isTTY bool, width int, img model.Image) error {
	tp := tableprinter.New(w, isTTY, width)
	field := func(label, value string) {
		tp.AddField(label, tableprinter.WithColor(colorIf(isTTY, ui.StyleLabel.UnsetWidth().Render)))
		tp.AddField(value)
		tp.EndRow()
	}
	field("Registry", img.Registry)
	field("Name", img.Name)
	field("Tag", img.Tag)
	field("Architecture", img.Architecture)
	field("Digest", img.Digest)
	field("Created", img.Created)
	field("Size", model.PrettifySize(img.Size))
	field("Pull", "docker pull "+img.PullRef())
	if err := tp.Render(); err != nil {
		return err
	}

	if len(img.Manifest.Layers) == 0 {
		return nil
	}
	fmt.Fprintln(w)

	layers := tableprinter.New(w, isTTY, width)
	if isTTY {
		layers.AddHeader([]string{"#", "DIGEST", "SIZE"})
	}
	for i, l := range img.Manifest.Layers {
		layers.AddField(strconv.Itoa(i + 1))
		layers.AddField(l.Digest, tableprinter.WithTruncate(nil))
		layers.AddField(model.PrettifySize(l.Size))
		layers.EndRow()
	}
	return layers.Render()
}

// JSON pretty prints a raw JSON document such as a manifest.
func JSON(w io.Writer, data []byte, colorize bool) error {
	if err := jsonpretty.Format(w, bytes.NewReader(data), "  ", colorize); err != nil {
		return fmt.Errorf("format json: %w", err)
	}
	return nil
}

func colorIf(enabled bool, fn func(...string) string) func(string) string {
	if !enabled {
		return func(s string) string { return s }
	}
	return func(s string) string { return fn(s) }
}

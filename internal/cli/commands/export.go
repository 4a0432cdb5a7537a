package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"ImageTranslator/internal/cli/export"
	"ImageTranslator/internal/config"
)

type exportCmd struct{}

func (exportCmd) Name() string        { return "export" }
func (exportCmd) Description() string { return "Выгрузить всю историю в JSON или CSV" }
func (exportCmd) Usage() string       { return "export [--images] [--out file|-] json|csv" }

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	images := fs.Bool("images", false, "включить миниатюры и сгенерированные изображения (JSON)")
	out := fs.String("out", "", "файл выгрузки; '-' — стандартный вывод")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	format := fs.Arg(0)
	if format != export.FormatJSON && format != export.FormatCSV {
		return ErrUsage
	}

	h, done, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer done()

	var content string
	if format == export.FormatJSON {
		content, err = h.Export.ToJSON(ctx, *images)
	} else {
		content, err = h.Export.ToCSV(ctx)
	}
	if err != nil {
		return err
	}

	if *out == "-" {
		fmt.Fprintln(Out, content)
		return nil
	}
	path := *out
	if path == "" {
		path = export.DefaultFileName(format, time.Now())
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Exported to %s (%s)\n", path, export.MimeType(format))
	return nil
}

func init() { RegisterCmd(exportCmd{}) }

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ImageTranslator/internal/cli/model"
	"ImageTranslator/internal/config"
)

type cleanupCmd struct{}

func (cleanupCmd) Name() string { return "cleanup" }
func (cleanupCmd) Description() string {
	return "Удалить старые и лишние записи (избранное не удаляется)"
}
func (cleanupCmd) Usage() string { return "cleanup [--max-age days] [--max-count N]" }

func (cleanupCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cleanup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var opts model.CleanupOptions
	fs.IntVar(&opts.MaxAgeDays, "max-age", cfg.RetentionMaxAgeDays, "максимальный возраст записи в днях")
	fs.IntVar(&opts.MaxCount, "max-count", cfg.RetentionMaxCount, "максимальное число записей")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	h, done, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer done()

	n, err := h.Query.Cleanup(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted: %d\n", n)
	return nil
}

type statsCmd struct{}

func (statsCmd) Name() string        { return "stats" }
func (statsCmd) Description() string { return "Статистика истории по языковым парам" }
func (statsCmd) Usage() string       { return "stats" }

func (statsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	h, done, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer done()

	st, err := h.Query.Statistics(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Total records: %d\n", st.TotalCount)
	for _, p := range st.LanguagePairs {
		fmt.Fprintf(Out, "  %s → %s: %d\n", p.Source, p.Target, p.Count)
	}
	info := h.Query.StorageInfo(ctx)
	fmt.Fprintf(Out, "Storage used: %s\n", humanBytes(info.Used))
	if info.Quota > 0 {
		fmt.Fprintf(Out, "Storage quota: %s (%.1f%%)\n", humanBytes(info.Quota), info.Percentage)
	}
	return nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	RegisterCmd(cleanupCmd{})
	RegisterCmd(statsCmd{})
}

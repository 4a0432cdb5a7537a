package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"ImageTranslator/internal/cli/bootstrap"
	"ImageTranslator/internal/cli/model"
	"ImageTranslator/internal/config"
)

// openHistory открывает БД истории для команды; done закрывает БД и сбрасывает логгер.
func openHistory(cfg *config.Config) (*bootstrap.History, func(), error) {
	log := bootstrap.Logger(cfg)
	h, closeDB, err := bootstrap.OpenHistory(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return h, func() {
		_ = closeDB()
		_ = log.Sync()
	}, nil
}

func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func favMark(fav bool) string {
	if fav {
		return " ★"
	}
	return ""
}

type historyCmd struct{}

func (historyCmd) Name() string        { return "history" }
func (historyCmd) Description() string { return "Показать историю переводов с фильтрами и пагинацией" }
func (historyCmd) Usage() string {
	return "history [--page N] [--limit N] [--from lang] [--to lang] [--q text] [--fav] [--sort createdAt|updatedAt] [--order asc|desc]"
}

func (historyCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var opts model.QueryOptions
	fs.IntVar(&opts.Page, "page", 1, "номер страницы")
	fs.IntVar(&opts.Limit, "limit", 20, "записей на странице")
	fs.StringVar(&opts.SourceLanguage, "from", "", "исходный язык")
	fs.StringVar(&opts.TargetLanguage, "to", "", "целевой язык")
	fs.StringVar(&opts.SearchQuery, "q", "", "поиск по тексту")
	fs.BoolVar(&opts.FavoritesOnly, "fav", false, "только избранное")
	fs.StringVar(&opts.SortBy, "sort", model.SortByCreatedAt, "поле сортировки")
	fs.StringVar(&opts.SortOrder, "order", model.SortDesc, "направление сортировки")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	h, done, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer done()

	res, err := h.Query.Query(ctx, opts)
	if err != nil {
		return err
	}
	if res.Total == 0 {
		fmt.Fprintln(Out, "Нет записей")
		return nil
	}
	for _, r := range res.Records {
		fmt.Fprintf(Out, "- %s  %s  %s→%s%s  %s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.SourceLanguage, r.TargetLanguage,
			favMark(r.IsFavorite), snippet(r.TranslatedText, 48))
	}
	fmt.Fprintf(Out, "Показано: %d, всего: %d\n", len(res.Records), res.Total)
	return nil
}

type historyGetCmd struct{}

func (historyGetCmd) Name() string        { return "history-get" }
func (historyGetCmd) Description() string { return "Показать запись истории целиком" }
func (historyGetCmd) Usage() string       { return "history-get <id>" }

func (historyGetCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	h, done, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer done()

	r, err := h.Records.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if r == nil {
		fmt.Fprintf(Out, "Record %s not found\n", args[0])
		return nil
	}
	fmt.Fprintf(Out, "id:          %s\n", r.ID)
	fmt.Fprintf(Out, "created:     %s\n", r.CreatedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(Out, "updated:     %s\n", r.UpdatedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(Out, "languages:   %s → %s\n", r.SourceLanguage, r.TargetLanguage)
	fmt.Fprintf(Out, "confidence:  %s\n", r.Metadata.Confidence)
	fmt.Fprintf(Out, "model:       %s (%s)\n", r.Metadata.ModelUsed, r.Metadata.ProcessingTime.Round(time.Millisecond))
	fmt.Fprintf(Out, "image:       %s, original %d bytes, thumbnail %d bytes\n", r.Image.MimeType, r.Image.OriginalSize, len(r.Image.Thumbnail))
	if g := r.GeneratedImage; g != nil {
		fmt.Fprintf(Out, "generated:   %s %s, %d bytes\n", g.AspectRatio, g.Resolution, len(g.Data))
	}
	fmt.Fprintf(Out, "favorite:    %t\n", r.IsFavorite)
	if r.Notes != "" {
		fmt.Fprintf(Out, "notes:       %s\n", r.Notes)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(Out, "tags:        %s\n", strings.Join(r.Tags, ", "))
	}
	fmt.Fprintln(Out, "original:")
	fmt.Fprintln(Out, r.OriginalText)
	fmt.Fprintln(Out, "translated:")
	fmt.Fprintln(Out, r.TranslatedText)
	return nil
}

type historyNoteCmd struct{}

func (historyNoteCmd) Name() string        { return "history-note" }
func (historyNoteCmd) Description() string { return "Задать заметку и теги записи" }
func (historyNoteCmd) Usage() string       { return "history-note [--tags a,b] <id> <text>" }

func (historyNoteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("history-note", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	tags := fs.String("tags", "", "теги через запятую")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return ErrUsage
	}
	id, notes := fs.Arg(0), fs.Arg(1)
	upd := model.RecordUpdate{Notes: &notes}
	if *tags != "" {
		var list []string
		for _, t := range strings.Split(*tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				list = append(list, t)
			}
		}
		upd.Tags = &list
	}

	h, done, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer done()

	ok, err := h.Records.Update(ctx, id, upd)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(Out, "Record %s not found\n", id)
		return nil
	}
	fmt.Fprintf(Out, "Updated: %s\n", id)
	return nil
}

type favoriteCmd struct{}

func (favoriteCmd) Name() string        { return "favorite" }
func (favoriteCmd) Description() string { return "Добавить запись в избранное или убрать из него" }
func (favoriteCmd) Usage() string       { return "favorite <id>" }

func (favoriteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	h, done, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer done()

	r, err := h.Records.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if r == nil {
		fmt.Fprintf(Out, "Record %s not found\n", args[0])
		return nil
	}
	fav, err := h.Records.ToggleFavorite(ctx, args[0])
	if err != nil {
		return err
	}
	if fav {
		fmt.Fprintf(Out, "★ %s added to favorites\n", args[0])
	} else {
		fmt.Fprintf(Out, "%s removed from favorites\n", args[0])
	}
	return nil
}

type historyDeleteCmd struct{}

func (historyDeleteCmd) Name() string        { return "history-delete" }
func (historyDeleteCmd) Description() string { return "Удалить одну или несколько записей истории" }
func (historyDeleteCmd) Usage() string       { return "history-delete <id> [<id>...]" }

func (historyDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	h, done, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer done()

	var n int
	if len(args) == 1 {
		ok, err := h.Records.Delete(ctx, args[0])
		if err != nil {
			return err
		}
		if ok {
			n = 1
		}
	} else {
		if n, err = h.Records.BulkDelete(ctx, args); err != nil {
			return err
		}
	}
	fmt.Fprintf(Out, "Deleted: %d\n", n)
	return nil
}

type historyClearCmd struct{}

func (historyClearCmd) Name() string        { return "history-clear" }
func (historyClearCmd) Description() string { return "Удалить всю историю (нужен --yes)" }
func (historyClearCmd) Usage() string       { return "history-clear --yes" }

func (historyClearCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] != "--yes" {
		return ErrUsage
	}
	h, done, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer done()

	n, err := h.Records.ClearAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted: %d\n", n)
	return nil
}

func init() {
	RegisterCmd(historyCmd{})
	RegisterCmd(historyGetCmd{})
	RegisterCmd(historyNoteCmd{})
	RegisterCmd(favoriteCmd{})
	RegisterCmd(historyDeleteCmd{})
	RegisterCmd(historyClearCmd{})
}

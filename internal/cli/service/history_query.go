package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"ImageTranslator/internal/cli/model"
)

// Значения по умолчанию для выборки и очистки истории.
const (
	DefaultPageLimit     = 20
	DefaultMaxAgeDays    = 90
	DefaultMaxCount      = 1000
	defaultSortBy        = model.SortByCreatedAt
	defaultSortDirection = model.SortDesc
)

// HistoryQuery — выборка, поиск и очистка истории. Работает полным сканом
// записей в памяти; удаление выполняется через HistoryService.
type HistoryQuery struct {
	records *HistoryService
	logger  *zap.SugaredLogger
	now     func() time.Time
}

// NewHistoryQuery создаёт движок запросов поверх хранилища записей.
func NewHistoryQuery(records *HistoryService, logger *zap.SugaredLogger) *HistoryQuery {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &HistoryQuery{records: records, logger: logger, now: records.now}
}

// normalizeQuery заполняет значения по умолчанию.
func normalizeQuery(opts model.QueryOptions) model.QueryOptions {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = DefaultPageLimit
	}
	if opts.SortBy != model.SortByUpdatedAt {
		opts.SortBy = defaultSortBy
	}
	if opts.SortOrder != model.SortAsc {
		opts.SortOrder = defaultSortDirection
	}
	return opts
}

func matches(rec *model.TranslationRecord, opts model.QueryOptions, needle string) bool {
	if opts.SourceLanguage != "" && rec.SourceLanguage != opts.SourceLanguage {
		return false
	}
	if opts.TargetLanguage != "" && rec.TargetLanguage != opts.TargetLanguage {
		return false
	}
	if opts.FavoritesOnly && !rec.IsFavorite {
		return false
	}
	if needle != "" &&
		!strings.Contains(strings.ToLower(rec.OriginalText), needle) &&
		!strings.Contains(strings.ToLower(rec.TranslatedText), needle) {
		return false
	}
	return true
}

// Query фильтрует (все условия через AND), сортирует и возвращает страницу.
// Total — число записей после фильтрации, до пагинации.
func (q *HistoryQuery) Query(ctx context.Context, opts model.QueryOptions) (model.QueryResult, error) {
	opts = normalizeQuery(opts)
	all, err := q.records.All(ctx)
	if err != nil {
		return model.QueryResult{}, err
	}

	needle := strings.ToLower(strings.TrimSpace(opts.SearchQuery))
	filtered := make([]model.TranslationRecord, 0, len(all))
	for i := range all {
		if matches(&all[i], opts, needle) {
			filtered = append(filtered, all[i])
		}
	}

	key := func(r *model.TranslationRecord) time.Time { return r.CreatedAt }
	if opts.SortBy == model.SortByUpdatedAt {
		key = func(r *model.TranslationRecord) time.Time { return r.UpdatedAt }
	}
	asc := opts.SortOrder == model.SortAsc
	// стабильная сортировка: при равных ключах сохраняется порядок хранения
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := key(&filtered[i]), key(&filtered[j])
		if asc {
			return a.Before(b)
		}
		return a.After(b)
	})

	res := model.QueryResult{Total: len(filtered), Records: []model.TranslationRecord{}}
	start := (opts.Page - 1) * opts.Limit
	if start >= len(filtered) {
		return res, nil
	}
	end := start + opts.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	res.Records = filtered[start:end]
	return res, nil
}

// Cleanup удаляет старые и лишние записи, не трогая избранные.
// Фаза 1: записи старше MaxAgeDays. Фаза 2: если осталось больше MaxCount,
// удаляются самые старые из оставшихся. Возвращает суммарное число удалённых.
func (q *HistoryQuery) Cleanup(ctx context.Context, opts model.CleanupOptions) (int, error) {
	if opts.MaxAgeDays <= 0 {
		opts.MaxAgeDays = DefaultMaxAgeDays
	}
	if opts.MaxCount <= 0 {
		opts.MaxCount = DefaultMaxCount
	}

	all, err := q.records.All(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := q.now().Add(-time.Duration(opts.MaxAgeDays) * 24 * time.Hour)
	var expired []string
	remaining := make([]model.TranslationRecord, 0, len(all))
	for _, rec := range all {
		if !rec.IsFavorite && rec.CreatedAt.Before(cutoff) {
			expired = append(expired, rec.ID)
			continue
		}
		remaining = append(remaining, rec)
	}
	byAge, err := q.records.BulkDelete(ctx, expired)
	if err != nil {
		return 0, err
	}

	var excess []string
	if over := len(remaining) - opts.MaxCount; over > 0 {
		sort.SliceStable(remaining, func(i, j int) bool {
			return remaining[i].CreatedAt.Before(remaining[j].CreatedAt)
		})
		for _, rec := range remaining {
			if len(excess) == over {
				break
			}
			if !rec.IsFavorite {
				excess = append(excess, rec.ID)
			}
		}
	}
	byCount, err := q.records.BulkDelete(ctx, excess)
	if err != nil {
		return byAge, err
	}

	if total := byAge + byCount; total > 0 {
		q.logger.Infow("history cleanup", "byAge", byAge, "byCount", byCount)
	}
	return byAge + byCount, nil
}

// Statistics считает записи по языковым парам. Пары упорядочены по убыванию
// числа записей, при равенстве — по первому появлению.
func (q *HistoryQuery) Statistics(ctx context.Context) (model.Statistics, error) {
	all, err := q.records.All(ctx)
	if err != nil {
		return model.Statistics{}, err
	}

	type pairKey struct{ src, dst string }
	index := map[pairKey]int{}
	pairs := []model.LanguagePair{}
	for _, rec := range all {
		k := pairKey{rec.SourceLanguage, rec.TargetLanguage}
		i, ok := index[k]
		if !ok {
			i = len(pairs)
			index[k] = i
			pairs = append(pairs, model.LanguagePair{Source: k.src, Target: k.dst})
		}
		pairs[i].Count++
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Count > pairs[j].Count })

	return model.Statistics{
		TotalCount:    len(all),
		LanguagePairs: pairs,
		StorageUsed:   q.records.StorageUsed(ctx),
	}, nil
}

// StorageInfo возвращает занятый объём. Квота локальной БД не ограничена,
// поэтому Quota и Percentage равны нулю.
func (q *HistoryQuery) StorageInfo(ctx context.Context) model.StorageInfo {
	return model.StorageInfo{Used: q.records.StorageUsed(ctx)}
}

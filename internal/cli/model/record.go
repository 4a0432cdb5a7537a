package model

import "time"

// Уровни уверенности распознавания.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ImageInfo — сжатая миниатюра исходного изображения и сведения об оригинале.
type ImageInfo struct {
	Thumbnail    []byte `json:"thumbnail"`
	OriginalSize int64  `json:"originalSize"`
	MimeType     string `json:"mimeType"`
}

// GeneratedImage — изображение, перерисованное провайдером с переведённым текстом.
type GeneratedImage struct {
	Data        []byte `json:"data"`
	Resolution  string `json:"resolution"`
	AspectRatio string `json:"aspectRatio"`
}

// RecordMetadata — неизменяемые сведения о переводе.
type RecordMetadata struct {
	Confidence     string        `json:"confidence"`
	ProcessingTime time.Duration `json:"processingTime"`
	ModelUsed      string        `json:"modelUsed"`
}

// TranslationRecord — запись истории переводов.
// Изменяемые поля: IsFavorite, Notes, Tags; остальное фиксируется при сохранении.
type TranslationRecord struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Image          ImageInfo       `json:"image"`
	SourceLanguage string          `json:"sourceLanguage"`
	TargetLanguage string          `json:"targetLanguage"`
	OriginalText   string          `json:"originalText"`
	TranslatedText string          `json:"translatedText"`
	GeneratedImage *GeneratedImage `json:"generatedImage,omitempty"`
	Metadata       RecordMetadata  `json:"metadata"`
	Notes          string          `json:"notes,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	IsFavorite     bool            `json:"isFavorite"`
}

// ImagePayload — исходное изображение, переданное на перевод.
type ImagePayload struct {
	Data     []byte
	MimeType string
}

// TranslationResult — структурированный ответ провайдера перевода.
type TranslationResult struct {
	DetectedLanguage string
	TargetLanguage   string
	OriginalText     string
	TranslatedText   string
	Confidence       string
	ModelUsed        string
	StartedAt        time.Time
}

// RecordUpdate — частичное обновление записи; nil-поля не меняются.
type RecordUpdate struct {
	Notes      *string
	Tags       *[]string
	IsFavorite *bool
}

// Поля сортировки истории.
const (
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortAsc         = "asc"
	SortDesc        = "desc"
)

// QueryOptions — параметры выборки истории. Пустые строки означают «без фильтра».
type QueryOptions struct {
	Page           int
	Limit          int
	SourceLanguage string
	TargetLanguage string
	SearchQuery    string
	FavoritesOnly  bool
	SortBy         string
	SortOrder      string
}

// QueryResult — страница записей и общее число после фильтрации.
type QueryResult struct {
	Records []TranslationRecord
	Total   int
}

// CleanupOptions — политика хранения. Нулевые значения заменяются значениями по умолчанию.
type CleanupOptions struct {
	MaxAgeDays int
	MaxCount   int
}

// LanguagePair — число записей для пары языков.
type LanguagePair struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Count  int    `json:"count"`
}

// Statistics — агрегаты по истории.
type Statistics struct {
	TotalCount    int            `json:"totalCount"`
	LanguagePairs []LanguagePair `json:"languagePairs"`
	StorageUsed   int64          `json:"storageUsed"`
}

// StorageInfo — занятое место и квота; Quota == 0, если квота неизвестна.
type StorageInfo struct {
	Used       int64
	Quota      int64
	Percentage float64
}

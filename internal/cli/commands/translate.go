package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"ImageTranslator/internal/cli/bootstrap"
	"ImageTranslator/internal/cli/model"
	"ImageTranslator/internal/cli/provider"
	"ImageTranslator/internal/config"
	apperr "ImageTranslator/internal/errors"
)

// translator — провайдер распознавания/перевода и перерисовки изображения.
type translator interface {
	Translate(ctx context.Context, img model.ImagePayload, targetLanguage, tone string) (model.TranslationResult, error)
	GenerateImage(ctx context.Context, img model.ImagePayload, res model.TranslationResult, aspectRatio, resolution string) (*model.GeneratedImage, error)
}

// newTranslator создаёт сессию провайдера под загруженный ключ. Подменяется в тестах.
var newTranslator = func(ctx context.Context, apiKey string, cfg *config.Config, log *zap.SugaredLogger) (translator, error) {
	return provider.NewSession(ctx, apiKey, provider.Options{OCRModel: cfg.OCRModel, ImageModel: cfg.ImageModel}, log)
}

type translateCmd struct{}

func (translateCmd) Name() string { return "translate" }
func (translateCmd) Description() string {
	return "Распознать и перевести текст на изображении, опционально перерисовать его"
}
func (translateCmd) Usage() string {
	return "translate [--to lang] [--tone general|product|formal] [--generate] [--ratio 1:1] [--resolution 2K] [--out file] [--no-save] <image>"
}

func (translateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	to := fs.String("to", "", "целевой язык")
	tone := fs.String("tone", "", "тон перевода")
	generate := fs.Bool("generate", false, "перерисовать изображение с переводом")
	ratio := fs.String("ratio", "", "соотношение сторон сгенерированного изображения")
	resolution := fs.String("resolution", "", "разрешение сгенерированного изображения")
	out := fs.String("out", "", "куда записать сгенерированное изображение")
	noSave := fs.Bool("no-save", false, "не сохранять в историю")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if fs.NArg() != 1 {
		return ErrUsage
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	mime, err := provider.DetectImage(data)
	if err != nil {
		return err
	}
	img := model.ImagePayload{Data: data, MimeType: mime}

	log := bootstrap.Logger(cfg)
	defer func() { _ = log.Sync() }()

	apiKey, ok := bootstrap.OpenCredentials(cfg, log).Load()
	if !ok {
		return apperr.ErrNoCredential
	}

	h, done, err := bootstrap.OpenHistory(cfg, log)
	if err != nil {
		return err
	}
	defer done()
	st, err := h.Settings.Load(ctx)
	if err != nil {
		return err
	}

	target := firstNonEmpty(*to, st.TargetLanguage)
	if _, ok := provider.LookupTarget(target); !ok {
		return fmt.Errorf("unsupported target language: %s", target)
	}
	toneVal := firstNonEmpty(*tone, st.TranslationTone)
	if !provider.ValidTone(toneVal) {
		return ErrUsage
	}

	session, err := newTranslator(ctx, apiKey, cfg, log)
	if err != nil {
		return err
	}
	res, err := session.Translate(ctx, img, target, toneVal)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Detected language: %s (confidence: %s)\n", res.DetectedLanguage, res.Confidence)
	fmt.Fprintln(Out, "Original:")
	fmt.Fprintln(Out, res.OriginalText)
	fmt.Fprintf(Out, "Translated (%s):\n", res.TargetLanguage)
	fmt.Fprintln(Out, res.TranslatedText)

	var gen *model.GeneratedImage
	if *generate || st.ImageGenerationEnabled {
		r := firstNonEmpty(*ratio, st.DefaultAspectRatio)
		q := firstNonEmpty(*resolution, st.DefaultResolution)
		gen, err = session.GenerateImage(ctx, img, res, r, q)
		if err != nil {
			// перевод уже получен: ошибка генерации не отменяет его
			log.Warnw("image generation failed", "error", err)
			fmt.Fprintf(Out, "Image generation failed: %v\n", err)
		} else if *out != "" {
			if err := os.WriteFile(*out, gen.Data, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(Out, "Generated image (%s, %s) written to %s\n", gen.AspectRatio, gen.Resolution, *out)
		}
	}

	if st.AutoSaveHistory && !*noSave {
		id, err := h.Records.Save(ctx, img, res, gen)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Saved to history: %s\n", id)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() { RegisterCmd(translateCmd{}) }

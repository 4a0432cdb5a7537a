package commands

import (
	"context"
	"fmt"

	"ImageTranslator/internal/cli/bootstrap"
	"ImageTranslator/internal/cli/crypto"
	"ImageTranslator/internal/cli/service"
	"ImageTranslator/internal/config"
)

// securityNote описывает режим защиты ключа без преувеличений.
func securityNote(mode string) string {
	if mode == crypto.ModeFallback {
		return "obfuscated (fallback, not encryption: anyone who can read the file can recover the key)"
	}
	return "encrypted (AEAD, key bound to this environment)"
}

type keySetCmd struct{}

func (keySetCmd) Name() string        { return "key-set" }
func (keySetCmd) Description() string { return "Сохранить API-ключ провайдера (шифруется локально)" }
func (keySetCmd) Usage() string       { return "key-set <api-key>" }

func (keySetCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	log := bootstrap.Logger(cfg)
	defer func() { _ = log.Sync() }()

	creds := bootstrap.OpenCredentials(cfg, log)
	if err := creds.Save(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "API key saved")
	if mode, ok := creds.StoredMode(); ok {
		fmt.Fprintf(Out, "  protection: %s\n", securityNote(mode))
	}
	return nil
}

type keyShowCmd struct{}

func (keyShowCmd) Name() string        { return "key-show" }
func (keyShowCmd) Description() string { return "Показать сохранённый API-ключ в замаскированном виде" }
func (keyShowCmd) Usage() string       { return "key-show" }

func (keyShowCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	log := bootstrap.Logger(cfg)
	defer func() { _ = log.Sync() }()

	creds := bootstrap.OpenCredentials(cfg, log)
	stored := creds.HasStored()
	secret, ok := creds.Load()
	if !ok {
		if stored {
			fmt.Fprintln(Out, "API key is not set: the stored key could not be read in this environment and was removed")
			return nil
		}
		fmt.Fprintln(Out, "API key is not set")
		return nil
	}
	fmt.Fprintf(Out, "API key: %s\n", service.Mask(secret))
	if mode, ok := creds.StoredMode(); ok {
		fmt.Fprintf(Out, "  protection: %s\n", securityNote(mode))
		if mode == crypto.ModeFallback && creds.Mode() == crypto.ModeSecure {
			fmt.Fprintln(Out, "  encryption is available now: run key-set again to re-encrypt the key")
		}
	}
	return nil
}

type keyDeleteCmd struct{}

func (keyDeleteCmd) Name() string        { return "key-delete" }
func (keyDeleteCmd) Description() string { return "Удалить сохранённый API-ключ" }
func (keyDeleteCmd) Usage() string       { return "key-delete" }

func (keyDeleteCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	log := bootstrap.Logger(cfg)
	defer func() { _ = log.Sync() }()

	if err := bootstrap.OpenCredentials(cfg, log).Delete(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "API key deleted")
	return nil
}

func init() {
	RegisterCmd(keySetCmd{})
	RegisterCmd(keyShowCmd{})
	RegisterCmd(keyDeleteCmd{})
}

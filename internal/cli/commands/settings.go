package commands

import (
	"context"
	"fmt"

	"ImageTranslator/internal/cli/service"
	"ImageTranslator/internal/config"
)

type settingsCmd struct{}

func (settingsCmd) Name() string        { return "settings" }
func (settingsCmd) Description() string { return "Показать или изменить настройки перевода" }
func (settingsCmd) Usage() string       { return "settings [<key> [<value>]]" }

func (settingsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 2 {
		return ErrUsage
	}
	h, done, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer done()

	if len(args) == 2 {
		if err := h.Settings.Set(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(Out, "%s = %s\n", args[0], args[1])
		return nil
	}

	st, err := h.Settings.Load(ctx)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		v, ok := st.Value(args[0])
		if !ok {
			return fmt.Errorf("unknown setting %q", args[0])
		}
		fmt.Fprintln(Out, v)
		return nil
	}
	for _, key := range service.SettingKeys {
		v, _ := st.Value(key)
		fmt.Fprintf(Out, "%-24s %s\n", key, v)
	}
	return nil
}

func init() { RegisterCmd(settingsCmd{}) }

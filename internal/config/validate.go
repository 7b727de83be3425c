package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their config key ("telegram.owner_id"), or by
// "$NAME" for env-only fields.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			if e := f.Tag.Get("env"); e != "" {
				return "$" + e
			}
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct constraints and every duration field.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}

	durations := []struct{ path, raw string }{
		{"telegram.poll_timeout", cfg.Telegram.PollTimeout},
		{"storage.busy_timeout", cfg.Storage.BusyTimeout},
		{"commands.timeout", cfg.Commands.Timeout},
		{"wiki.timeout", cfg.Wiki.Timeout},
	}
	for _, d := range durations {
		if _, err := DurationOr(d.path, d.raw, 0); err != nil {
			return err
		}
	}
	return nil
}

// DurationOr parses a duration field such as "15s". Blank or zero values
// yield def; negative or malformed ones are errors naming the field.
func DurationOr(path, raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	switch {
	case err != nil:
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	case d < 0:
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	case d == 0:
		return def, nil
	}
	return d, nil
}

func describeFieldError(fe validator.FieldError) string {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}
	if p := fe.Param(); p != "" {
		return fmt.Sprintf("%s: %s=%s", path, fe.Tag(), p)
	}
	return path + ": " + fe.Tag()
}

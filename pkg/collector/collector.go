package collector

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/fieldline-io/exo-autoreply/pkg/exchange"
)

var (
	// ErrDateParse is returned when a schedule date/time answer cannot be
	// parsed.
	ErrDateParse = errors.New("exo-autoreply: could not parse the schedule date and time")
	// ErrCanceled is returned when the operator declines a confirmation.
	// The run ends cleanly, nothing is pushed and nothing is written.
	ErrCanceled = errors.New("exo-autoreply: run canceled by the operator")
)

const (
	fallbackInternalFile = "OOFMessageInternal.txt"
	fallbackExternalFile = "OOFMessageExternal.txt"

	previewLength = 100

	scheduleDisplayLayout = "2006-01-02 15:04"
)

// dateTimeLayouts accepts 12-hour answers like "9:00 AM" or "09:00 AM" and
// 24-hour answers like "17:00".
var dateTimeLayouts = []string{
	"2006-01-02 3:04 PM",
	"2006-01-02 15:04",
}

// Source supplies operator answers and carries notices back. Collect keeps
// no terminal state of its own so the whole flow runs against a scripted
// source in tests.
type Source interface {
	Ask(prompt string) (string, error)
	Say(format string, args ...any)
}

// MessageFiles points at the reply template files. A path that cannot be
// read falls back to the fixed file name in the working directory, then to
// interactive entry.
type MessageFiles struct {
	InternalPath string
	ExternalPath string
}

// Collect walks the operator through one deployment configuration. The
// returned configuration is shared read-only by the whole batch. The state
// answer must match Scheduled, Enabled or Disabled exactly, and every
// confirmation accepts only Y or y.
func Collect(ctx context.Context, src Source, files MessageFiles) (*exchange.AutoReplyConfig, error) {
	l := ctxzap.Extract(ctx)

	answer, err := src.Ask("Auto-reply state (Scheduled, Enabled, Disabled): ")
	if err != nil {
		return nil, err
	}
	state, err := exchange.ParseState(answer)
	if err != nil {
		return nil, err
	}

	cfg := &exchange.AutoReplyConfig{State: state}

	if state == exchange.StateScheduled {
		if err := collectSchedule(src, cfg); err != nil {
			return nil, err
		}
	}

	cfg.InternalMessage, err = resolveMessage(ctx, src, "internal", files.InternalPath, fallbackInternalFile)
	if err != nil {
		return nil, err
	}
	cfg.ExternalMessage, err = resolveMessage(ctx, src, "external", files.ExternalPath, fallbackExternalFile)
	if err != nil {
		return nil, err
	}

	answer, err = src.Ask("External audience (None, Known, All): ")
	if err != nil {
		return nil, err
	}
	audience, ok := exchange.ParseAudience(answer)
	if !ok {
		l.Warn("exo-autoreply: unrecognized external audience, using All",
			zap.String("answer", answer))
		src.Say("Unrecognized external audience %q, using All.\n", answer)
	}
	cfg.ExternalAudience = audience

	answer, err = src.Ask("Apply this auto-reply configuration to every listed mailbox? (Y/N): ")
	if err != nil {
		return nil, err
	}
	if answer != "Y" && answer != "y" {
		return nil, ErrCanceled
	}

	return cfg, nil
}

func collectSchedule(src Source, cfg *exchange.AutoReplyConfig) error {
	startDate, err := src.Ask("Start date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	startClock, err := src.Ask("Start time (e.g. 08:00 AM): ")
	if err != nil {
		return err
	}
	endDate, err := src.Ask("End date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	endClock, err := src.Ask("End time (e.g. 05:00 PM): ")
	if err != nil {
		return err
	}

	cfg.Start, err = parseLocalDateTime(startDate, startClock)
	if err != nil {
		return err
	}
	cfg.End, err = parseLocalDateTime(endDate, endClock)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	zone, _ := cfg.Start.Zone()
	src.Say("Auto-reply will run from %s until %s, %s time.\n",
		cfg.Start.Format(scheduleDisplayLayout),
		cfg.End.Format(scheduleDisplayLayout),
		zone)

	answer, err := src.Ask("Is this schedule correct? (Y/N): ")
	if err != nil {
		return err
	}
	if answer != "Y" && answer != "y" {
		return ErrCanceled
	}
	return nil
}

func parseLocalDateTime(date, clock string) (time.Time, error) {
	raw := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrDateParse, "got %q", raw)
}

func resolveMessage(ctx context.Context, src Source, kind, configured, fallback string) (string, error) {
	l := ctxzap.Extract(ctx)

	for _, path := range []string{configured, fallback} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			l.Debug("exo-autoreply: message file not readable",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		text := string(data)
		src.Say("Loaded the %s message from %s:\n%s\n", kind, path, preview(text))
		return text, nil
	}

	return src.Ask("Type the " + kind + " auto-reply message: ")
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

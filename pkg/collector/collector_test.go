package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/fieldline-io/exo-autoreply/pkg/exchange"
)

type scriptedSource struct {
	answers []string
	asked   []string
	said    []string
}

func (s *scriptedSource) Ask(prompt string) (string, error) {
	s.asked = append(s.asked, prompt)
	if len(s.answers) == 0 {
		return "", errors.New("script ran out of answers")
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func (s *scriptedSource) Say(format string, args ...any) {
	s.said = append(s.said, fmt.Sprintf(format, args...))
}

func (s *scriptedSource) saidContaining(t *testing.T, substr string) string {
	t.Helper()
	for _, line := range s.said {
		if strings.Contains(line, substr) {
			return line
		}
	}
	t.Fatalf("nothing said contains %q, got %q", substr, s.said)
	return ""
}

func testMessageFiles(t *testing.T, internal, external string) MessageFiles {
	t.Helper()
	dir := t.TempDir()
	files := MessageFiles{
		InternalPath: filepath.Join(dir, "internal.txt"),
		ExternalPath: filepath.Join(dir, "external.txt"),
	}
	require.NoError(t, os.WriteFile(files.InternalPath, []byte(internal), 0o644))
	require.NoError(t, os.WriteFile(files.ExternalPath, []byte(external), 0o644))
	return files
}

func TestCollectScheduledFlow(t *testing.T) {
	files := testMessageFiles(t, "Back on the 16th.", "Away from the office.")
	src := &scriptedSource{answers: []string{
		"Scheduled",
		"2025-06-01",
		"08:00 AM",
		"2025-06-15",
		"05:00 PM",
		"Y",
		"All",
		"Y",
	}}

	cfg, err := Collect(context.Background(), src, files)
	require.NoError(t, err)
	require.Equal(t, exchange.StateScheduled, cfg.State)
	require.True(t, cfg.Start.Equal(time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)))
	require.True(t, cfg.End.Equal(time.Date(2025, 6, 15, 17, 0, 0, 0, time.Local)))
	require.Equal(t, "Back on the 16th.", cfg.InternalMessage)
	require.Equal(t, "Away from the office.", cfg.ExternalMessage)
	require.Equal(t, exchange.AudienceAll, cfg.ExternalAudience)

	src.saidContaining(t, "2025-06-01 08:00")
	src.saidContaining(t, "Back on the 16th.")
	require.Empty(t, src.answers)
}

func TestCollectScheduleLayouts(t *testing.T) {
	files := testMessageFiles(t, "internal", "external")
	src := &scriptedSource{answers: []string{
		"Scheduled",
		"2025-06-01",
		"9:00 AM",
		"2025-06-01",
		"17:30",
		"y",
		"None",
		"y",
	}}

	cfg, err := Collect(context.Background(), src, files)
	require.NoError(t, err)
	require.True(t, cfg.Start.Equal(time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)))
	require.True(t, cfg.End.Equal(time.Date(2025, 6, 1, 17, 30, 0, 0, time.Local)))
}

func TestCollectRejectsInexactState(t *testing.T) {
	files := testMessageFiles(t, "internal", "external")
	src := &scriptedSource{answers: []string{"scheduled"}}

	_, err := Collect(context.Background(), src, files)
	require.ErrorIs(t, err, exchange.ErrInvalidState)
}

func TestCollectDateParseError(t *testing.T) {
	files := testMessageFiles(t, "internal", "external")
	src := &scriptedSource{answers: []string{
		"Scheduled",
		"June 1st",
		"morning",
		"2025-06-15",
		"05:00 PM",
	}}

	_, err := Collect(context.Background(), src, files)
	require.ErrorIs(t, err, ErrDateParse)
}

func TestCollectRejectsInvertedSchedule(t *testing.T) {
	files := testMessageFiles(t, "internal", "external")
	src := &scriptedSource{answers: []string{
		"Scheduled",
		"2025-06-01",
		"09:00 AM",
		"2025-06-01",
		"08:00 AM",
	}}

	_, err := Collect(context.Background(), src, files)
	require.ErrorIs(t, err, exchange.ErrInvalidSchedule)
}

func TestCollectScheduleConfirmDecline(t *testing.T) {
	files := testMessageFiles(t, "internal", "external")
	src := &scriptedSource{answers: []string{
		"Scheduled",
		"2025-06-01",
		"08:00 AM",
		"2025-06-15",
		"05:00 PM",
		"n",
	}}

	_, err := Collect(context.Background(), src, files)
	require.ErrorIs(t, err, ErrCanceled)
}

func TestCollectAudienceCoercion(t *testing.T) {
	files := testMessageFiles(t, "internal", "external")
	src := &scriptedSource{answers: []string{"Enabled", "Everybody", "Y"}}

	cfg, err := Collect(context.Background(), src, files)
	require.NoError(t, err)
	require.Equal(t, exchange.AudienceAll, cfg.ExternalAudience)
	src.saidContaining(t, `Unrecognized external audience "Everybody", using All.`)
}

func TestCollectFinalConfirmDecline(t *testing.T) {
	files := testMessageFiles(t, "internal", "external")
	src := &scriptedSource{answers: []string{"Enabled", "None", "N"}}

	_, err := Collect(context.Background(), src, files)
	require.ErrorIs(t, err, ErrCanceled)
}

func TestCollectInteractiveMessageEntry(t *testing.T) {
	missing := MessageFiles{
		InternalPath: filepath.Join(t.TempDir(), "nope-internal.txt"),
		ExternalPath: filepath.Join(t.TempDir(), "nope-external.txt"),
	}
	src := &scriptedSource{answers: []string{
		"Disabled",
		"Typed internal message.",
		"Typed external message.",
		"None",
		"Y",
	}}

	cfg, err := Collect(context.Background(), src, missing)
	require.NoError(t, err)
	require.Equal(t, "Typed internal message.", cfg.InternalMessage)
	require.Equal(t, "Typed external message.", cfg.ExternalMessage)

	require.Contains(t, src.asked, "Type the internal auto-reply message: ")
	require.Contains(t, src.asked, "Type the external auto-reply message: ")
}

func TestCollectPreviewTruncated(t *testing.T) {
	long := strings.Repeat("a", 150)
	files := testMessageFiles(t, long, "external")
	src := &scriptedSource{answers: []string{"Enabled", "None", "Y"}}

	_, err := Collect(context.Background(), src, files)
	require.NoError(t, err)

	line := src.saidContaining(t, strings.Repeat("a", 100)+"...")
	require.NotContains(t, line, long)
}

package batch

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteReportBackup(t *testing.T) {
	dir := t.TempDir()
	out := RunOutput{
		Action:  ActionBackup,
		Started: time.Date(2024, 7, 1, 15, 4, 5, 0, time.UTC),
		Backups: []BackupRecord{
			{
				Identity:         "alice@contoso.com",
				State:            "Scheduled",
				StartTime:        "2024-07-01T08:00:00Z",
				EndTime:          "2024-07-15T08:00:00Z",
				InternalMessage:  "Out until mid July.",
				ExternalMessage:  "Away from the office.",
				ExternalAudience: "All",
				CapturedAt:       "2024-07-01T15:04:05Z",
			},
			{
				Identity:   "bob@contoso.com",
				CapturedAt: "2024-07-01T15:04:06Z",
				Detail:     "mailbox not found",
			},
		},
	}

	path, err := WriteReport(context.Background(), dir, out)
	require.NoError(t, err)
	require.Equal(t, "oof-backup-20240701-150405.csv", filepath.Base(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, backupHeader, rows[0])
	require.Equal(t, "alice@contoso.com", rows[1][0])
	require.Equal(t, "Out until mid July.", rows[1][4])
	require.Equal(t, "bob@contoso.com", rows[2][0])
	require.Equal(t, "mailbox not found", rows[2][8])
}

func TestWriteReportDeploy(t *testing.T) {
	dir := t.TempDir()
	out := RunOutput{
		Action:  ActionSetOOF,
		Started: time.Date(2024, 7, 1, 15, 4, 5, 0, time.UTC),
		Deploys: []DeployResult{
			{
				Identity:         "alice@contoso.com",
				State:            "Enabled",
				StartTime:        notApplicable,
				EndTime:          notApplicable,
				ExternalAudience: "None",
				Status:           statusSuccess,
			},
		},
	}

	path, err := WriteReport(context.Background(), dir, out)
	require.NoError(t, err)
	require.Equal(t, "oof-deploy-20240701-150405.csv", filepath.Base(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, deployHeader, rows[0])
	require.Equal(t, []string{"alice@contoso.com", "Enabled", notApplicable, notApplicable, "None", statusSuccess, ""}, rows[1])
}

func TestWriteReportRefusesExistingFile(t *testing.T) {
	dir := t.TempDir()
	out := RunOutput{
		Action:  ActionBackup,
		Started: time.Date(2024, 7, 1, 15, 4, 5, 0, time.UTC),
	}
	existing := filepath.Join(dir, "oof-backup-20240701-150405.csv")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	_, err := WriteReport(context.Background(), dir, out)
	require.ErrorIs(t, err, ErrReportExists)

	content, readErr := os.ReadFile(existing)
	require.NoError(t, readErr)
	require.Equal(t, "old", string(content))
}

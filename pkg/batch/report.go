package batch

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/fieldline-io/exo-autoreply/pkg/internal/slices"
)

const (
	backupReportPrefix = "oof-backup"
	deployReportPrefix = "oof-deploy"

	// Second precision keeps the names sortable by run time.
	reportTimestampLayout = "20060102-150405"
)

// ErrReportExists is returned when the run's report file already exists.
// Reports are create-only, never appended to or overwritten.
var ErrReportExists = errors.New("exo-autoreply: report file already exists")

var (
	backupHeader = []string{
		"Identity",
		"State",
		"StartTime",
		"EndTime",
		"InternalMessage",
		"ExternalMessage",
		"ExternalAudience",
		"CapturedAt",
		"Detail",
	}
	deployHeader = []string{
		"Identity",
		"State",
		"StartTime",
		"EndTime",
		"ExternalAudience",
		"Status",
		"Detail",
	}
)

// WriteReport writes the run's rows to a new CSV file under dir and returns
// the file's path. The file name carries the action prefix and the run's
// start timestamp, and an already existing file is an error rather than an
// overwrite.
func WriteReport(ctx context.Context, dir string, out RunOutput) (string, error) {
	l := ctxzap.Extract(ctx)

	var prefix string
	var header []string
	var rows [][]string
	switch out.Action {
	case ActionBackup:
		prefix = backupReportPrefix
		header = backupHeader
		rows = slices.ConvertAll(out.Backups, func(r BackupRecord) []string {
			return r.toSlice()
		})
	case ActionSetOOF:
		prefix = deployReportPrefix
		header = deployHeader
		rows = slices.ConvertAll(out.Deploys, func(r DeployResult) []string {
			return r.toSlice()
		})
	default:
		return "", errors.Newf("exo-autoreply: unknown action %q", out.Action)
	}

	name := prefix + "-" + out.Started.Format(reportTimestampLayout) + ".csv"
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", errors.Wrapf(ErrReportExists, "%s", path)
		}
		return "", errors.Wrapf(err, "exo-autoreply: creating report %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", errors.Wrapf(err, "exo-autoreply: writing report %s", path)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", errors.Wrapf(err, "exo-autoreply: writing report %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrapf(err, "exo-autoreply: writing report %s", path)
	}

	l.Info("exo-autoreply: report written",
		zap.String("path", path),
		zap.Int("rows", len(rows)))

	return path, nil
}

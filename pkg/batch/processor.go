package batch

import (
	"context"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/fieldline-io/exo-autoreply/pkg/exchange"
)

// AutoReplyService is the remote surface the processor drives, one call per
// identity.
type AutoReplyService interface {
	GetAutoReply(ctx context.Context, identity string) (*exchange.AutoReplySnapshot, error)
	SetAutoReply(ctx context.Context, identity string, cfg *exchange.AutoReplyConfig) error
}

var _ AutoReplyService = (*exchange.Client)(nil)

// Backup reads the auto-reply configuration of every identity in order.
// A failed read becomes that identity's row and the loop continues.
func Backup(ctx context.Context, svc AutoReplyService, identities []string) RunOutput {
	l := ctxzap.Extract(ctx)
	out := RunOutput{Action: ActionBackup, Started: time.Now()}

	for _, identity := range identities {
		l.Debug("exo-autoreply: reading auto-reply configuration", zap.String("identity", identity))

		snap, err := svc.GetAutoReply(ctx, identity)
		if err != nil {
			l.Warn("exo-autoreply: error reading auto-reply configuration",
				zap.String("identity", identity),
				zap.Error(err))
			out.Backups = append(out.Backups, BackupRecord{
				Identity:   identity,
				CapturedAt: time.Now().UTC().Format(time.RFC3339),
				Detail:     err.Error(),
			})
			out.Failed++
			continue
		}

		out.Backups = append(out.Backups, newBackupRecord(identity, snap))
		out.Succeeded++
	}

	return out
}

// Deploy pushes one configuration to every identity in order. A failed push
// becomes that identity's row and the loop continues.
func Deploy(ctx context.Context, svc AutoReplyService, identities []string, cfg *exchange.AutoReplyConfig) RunOutput {
	l := ctxzap.Extract(ctx)
	out := RunOutput{Action: ActionSetOOF, Started: time.Now()}

	for _, identity := range identities {
		l.Debug("exo-autoreply: applying auto-reply configuration", zap.String("identity", identity))

		result := newDeployResult(identity, cfg)
		if err := svc.SetAutoReply(ctx, identity, cfg); err != nil {
			l.Warn("exo-autoreply: error applying auto-reply configuration",
				zap.String("identity", identity),
				zap.Error(err))
			result.Status = statusFailure
			result.Detail = err.Error()
			out.Failed++
		} else {
			out.Succeeded++
		}
		out.Deploys = append(out.Deploys, result)
	}

	return out
}

func newBackupRecord(identity string, snap *exchange.AutoReplySnapshot) BackupRecord {
	return BackupRecord{
		Identity:         identity,
		State:            string(snap.State),
		StartTime:        snap.Start,
		EndTime:          snap.End,
		InternalMessage:  snap.InternalMessage,
		ExternalMessage:  snap.ExternalMessage,
		ExternalAudience: string(snap.ExternalAudience),
		CapturedAt:       time.Now().UTC().Format(time.RFC3339),
	}
}

func newDeployResult(identity string, cfg *exchange.AutoReplyConfig) DeployResult {
	start, end := notApplicable, notApplicable
	if cfg.State == exchange.StateScheduled {
		start = cfg.Start.Format(time.RFC3339)
		end = cfg.End.Format(time.RFC3339)
	}

	return DeployResult{
		Identity:         identity,
		Status:           statusSuccess,
		State:            string(cfg.State),
		StartTime:        start,
		EndTime:          end,
		ExternalAudience: string(cfg.ExternalAudience),
	}
}

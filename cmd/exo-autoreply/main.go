package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fieldline-io/exo-autoreply/pkg/batch"
	"github.com/fieldline-io/exo-autoreply/pkg/collector"
	"github.com/fieldline-io/exo-autoreply/pkg/exchange"
)

var version = "dev"

func main() {
	ctx := context.Background()

	v := viper.New()
	cmd := &cobra.Command{
		Use:           "exo-autoreply",
		Short:         "Back up or deploy automatic-reply configuration for a list of mailboxes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v)
		},
	}
	registerFlags(cmd)
	cmd.MarkFlagsMutuallyExclusive(useCliCredentialsFlag, clientSecretFlag)

	v.SetEnvPrefix("exo_autoreply")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	if err := ValidateConfig(v); err != nil {
		return err
	}
	action, err := parseAction(v)
	if err != nil {
		return err
	}

	logger, err := newLogger(v.GetString(logLevelFlag))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Every log line of a run carries the same generated id, so report files
	// can be matched back to their run's log output.
	logger = logger.With(zap.String("run_id", uuid.New().String()))
	ctx = ctxzap.ToContext(ctx, logger)
	l := ctxzap.Extract(ctx)

	l.Info("exo-autoreply: starting run",
		zap.String("action", string(action)),
		zap.String("version", version))

	identities, err := batch.LoadIdentities(ctx, v.GetString(userListFlag))
	if err != nil {
		return err
	}

	client, err := exchange.Connect(ctx, exchange.Options{
		TenantID:            v.GetString(tenantIdFlag),
		ClientID:            v.GetString(clientIdFlag),
		ClientSecret:        v.GetString(clientSecretFlag),
		CertificatePath:     v.GetString(certificatePathFlag),
		CertificatePassword: v.GetString(certificatePasswordFlag),
		UseCLICredentials:   v.GetBool(useCliCredentialsFlag),
	})
	if err != nil {
		return err
	}
	defer client.Close(ctx)

	var out batch.RunOutput
	switch action {
	case batch.ActionBackup:
		out = batch.Backup(ctx, client, identities)
	case batch.ActionSetOOF:
		src, err := collector.NewTerminalSource()
		if err != nil {
			return err
		}
		cfg, err := collector.Collect(ctx, src, collector.MessageFiles{
			InternalPath: v.GetString(internalMessageFileFlag),
			ExternalPath: v.GetString(externalMessageFileFlag),
		})
		if err != nil {
			if errors.Is(err, collector.ErrCanceled) {
				l.Info("exo-autoreply: run canceled by the operator")
				fmt.Println("Canceled. No mailboxes were changed and no report was written.")
				return nil
			}
			return err
		}
		out = batch.Deploy(ctx, client, identities, cfg)
	}

	path, err := batch.WriteReport(ctx, v.GetString(outputDirFlag), out)
	if err != nil {
		return errors.Wrapf(err, "run finished with %d succeeded and %d failed, but the report could not be written",
			out.Succeeded, out.Failed)
	}

	fmt.Printf("%s finished: %d succeeded, %d failed out of %d. Report: %s\n",
		action, out.Succeeded, out.Failed, out.Total(), path)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

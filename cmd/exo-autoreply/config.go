package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fieldline-io/exo-autoreply/pkg/batch"
)

const (
	actionFlag              = "action"
	userListFlag            = "user-list"
	outputDirFlag           = "output-dir"
	internalMessageFileFlag = "internal-message-file"
	externalMessageFileFlag = "external-message-file"
	tenantIdFlag            = "tenant-id"
	clientIdFlag            = "client-id"
	clientSecretFlag        = "client-secret"
	certificatePathFlag     = "certificate-path"
	certificatePasswordFlag = "certificate-password"
	useCliCredentialsFlag   = "use-cli-credentials"
	logLevelFlag            = "log-level"
)

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().String(actionFlag, "", "Action to run: Backup or SetOOF")
	cmd.Flags().String(userListFlag, "users.csv", "Path to the mailbox identity list")
	cmd.Flags().String(outputDirFlag, ".", "Directory the run report is written to")
	cmd.Flags().String(internalMessageFileFlag, "OOFMessageInternal.txt", "Path to the internal auto-reply message file")
	cmd.Flags().String(externalMessageFileFlag, "OOFMessageExternal.txt", "Path to the external auto-reply message file")
	cmd.Flags().String(tenantIdFlag, "", "Entra ID tenant ID")
	cmd.Flags().String(clientIdFlag, "", "Entra ID application client ID")
	cmd.Flags().String(clientSecretFlag, "", "Entra ID application client secret")
	cmd.Flags().String(certificatePathFlag, "", "Path to a certificate for application auth")
	cmd.Flags().String(certificatePasswordFlag, "", "Password of the certificate file")
	cmd.Flags().Bool(useCliCredentialsFlag, false, "If true, uses the az cli to auth")
	cmd.Flags().String(logLevelFlag, "info", "Log level: debug, info, warn or error")
}

// ValidateConfig is run after the configuration is loaded, and should return an error if it isn't valid.
func ValidateConfig(v *viper.Viper) error {
	useCliCredentials := v.GetBool(useCliCredentialsFlag)
	clientSecret := v.GetString(clientSecretFlag)
	clientId := v.GetString(clientIdFlag)
	if useCliCredentials && (clientSecret != "" || clientId != "") {
		return fmt.Errorf("use-cli-credentials and client-secret/client-id are mutually exclusive")
	}
	if v.GetString(actionFlag) == "" {
		return fmt.Errorf("an action is required: Backup or SetOOF")
	}
	return nil
}

func parseAction(v *viper.Viper) (batch.Action, error) {
	raw := v.GetString(actionFlag)
	switch {
	case strings.EqualFold(raw, string(batch.ActionBackup)):
		return batch.ActionBackup, nil
	case strings.EqualFold(raw, string(batch.ActionSetOOF)):
		return batch.ActionSetOOF, nil
	}
	return "", fmt.Errorf("unknown action %q: expected Backup or SetOOF", raw)
}

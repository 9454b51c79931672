package exchange

import (
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/cockroachdb/errors"
)

// Options selects the credential used for the Graph session. Exactly one
// method applies per run: az cli, client certificate, client secret, or the
// default credential chain when nothing else is configured.
type Options struct {
	TenantID            string
	ClientID            string
	ClientSecret        string
	CertificatePath     string
	CertificatePassword string
	UseCLICredentials   bool
}

func newCredential(opts Options) (azcore.TokenCredential, error) {
	switch {
	case opts.UseCLICredentials:
		return azidentity.NewAzureCLICredential(nil)
	case opts.CertificatePath != "":
		return newCertificateCredential(opts)
	case opts.TenantID != "" && opts.ClientID != "" && opts.ClientSecret != "":
		return azidentity.NewClientSecretCredential(opts.TenantID,
			opts.ClientID,
			opts.ClientSecret,
			&azidentity.ClientSecretCredentialOptions{})
	default:
		return azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			TenantID: opts.TenantID,
		})
	}
}

func newCertificateCredential(opts Options) (azcore.TokenCredential, error) {
	data, err := os.ReadFile(opts.CertificatePath)
	if err != nil {
		return nil, errors.Wrapf(err, "exo-autoreply: reading certificate %s", opts.CertificatePath)
	}

	var password []byte
	if opts.CertificatePassword != "" {
		password = []byte(opts.CertificatePassword)
	}
	certs, key, err := azidentity.ParseCertificates(data, password)
	if err != nil {
		return nil, errors.Wrapf(err, "exo-autoreply: could not parse certificate %s", opts.CertificatePath)
	}

	return azidentity.NewClientCertificateCredential(opts.TenantID,
		opts.ClientID,
		certs,
		key,
		&azidentity.ClientCertificateCredentialOptions{
			SendCertificateChain: true,
		})
}

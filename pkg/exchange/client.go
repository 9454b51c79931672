package exchange

import (
	"context"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/cockroachdb/errors"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	kiotaauth "github.com/microsoft/kiota-authentication-azure-go"
	khttp "github.com/microsoft/kiota-http-go"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"go.uber.org/zap"

	"github.com/fieldline-io/exo-autoreply/pkg/internal/slices"
)

var graphScopes = []string{"https://graph.microsoft.com/.default"}

// Client is one authenticated Graph session. Connect acquires it, Close
// releases it; every other method performs exactly one remote call.
type Client struct {
	cred       azcore.TokenCredential
	httpClient *http.Client
	graph      *msgraphsdk.GraphServiceClient
}

// Connect builds the configured credential, wires up the Graph client, and
// validates the session end to end before returning it.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	cred, err := newCredential(opts)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "creating credential"), ErrConnection)
	}

	authProvider, err := kiotaauth.NewAzureIdentityAuthenticationProviderWithScopes(cred, graphScopes)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "creating authentication provider"), ErrConnection)
	}

	httpClient := khttp.GetDefaultClient()
	adapter, err := msgraphsdk.NewGraphRequestAdapterWithParseNodeFactoryAndSerializationWriterFactoryAndHttpClient(authProvider, nil, nil, httpClient)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "creating request adapter"), ErrConnection)
	}

	c := &Client{
		cred:       cred,
		httpClient: httpClient,
		graph:      msgraphsdk.NewGraphServiceClient(adapter),
	}

	if err := c.validate(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// validate exercises the credential and confirms the tenant answers before
// any mailbox is touched.
func (c *Client) validate(ctx context.Context) error {
	l := ctxzap.Extract(ctx)

	if _, err := c.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: graphScopes}); err != nil {
		return errors.Mark(errors.Wrap(err, "acquiring token"), ErrConnection)
	}

	resp, err := c.graph.Organization().Get(ctx, nil)
	if err != nil {
		return errors.Mark(transformGraphError(err), ErrConnection)
	}

	names := slices.Convert(resp.GetValue(), func(org models.Organizationable) string {
		if org.GetDisplayName() == nil {
			return ""
		}
		return *org.GetDisplayName()
	})
	l.Info("exo-autoreply: session established", zap.Strings("organizations", names))

	return nil
}

// Close releases the session. Teardown problems are logged, never escalated.
func (c *Client) Close(ctx context.Context) {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	ctxzap.Extract(ctx).Debug("exo-autoreply: session closed")
}

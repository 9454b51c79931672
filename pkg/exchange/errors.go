package exchange

import (
	"github.com/cockroachdb/errors"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
)

var ErrConnection = errors.New("exo-autoreply: could not establish a Microsoft Graph session")

// transformGraphError unwraps the SDK's OData error type into a plain error
// carrying the service error code and message. Other errors pass through.
func transformGraphError(err error) error {
	var oDataErr *odataerrors.ODataError
	if !errors.As(err, &oDataErr) {
		return err
	}

	payload := oDataErr.GetErrorEscaped()
	if payload == nil {
		return errors.Newf("graph request failed with status %d", oDataErr.ResponseStatusCode)
	}

	code := "unknown"
	if payload.GetCode() != nil {
		code = *payload.GetCode()
	}
	message := ""
	if payload.GetMessage() != nil {
		message = *payload.GetMessage()
	}
	return errors.Newf("graph request failed. Code: %s, Message: %s", code, message)
}

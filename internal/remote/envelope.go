package remote

import (
	"encoding/json"

	"fieldlex-client/pkg/errors"
)

// Envelope is the success side of a remote call. Raw transport errors never
// reach callers; failures arrive as *errors.RemoteError instead.
type Envelope struct {
	Status int
	Body   []byte
}

// Decode unmarshals the response body. A body that cannot be parsed on a
// successful response is a parse_error, which callers treat as
// non-retryable.
func (e *Envelope) Decode(v interface{}) error {
	if err := json.Unmarshal(e.Body, v); err != nil {
		return errors.NewRemoteError(errors.KindParseError, e.Status,
			"failed to decode response body", err)
	}
	return nil
}

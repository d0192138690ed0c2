package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"time"
)

// AudioFieldName is the multipart part the remote service expects the
// recording under.
const AudioFieldName = "audio"

// Attachment is an in-memory binary blob sent as a multipart file part.
type Attachment struct {
	FileName string
	Data     []byte
}

// Descriptor fully describes one remote call. A descriptor is constructed
// fresh per call and never mutated after being handed to the executor.
type Descriptor struct {
	Method      string
	Path        string
	Query       url.Values
	Fields      map[string]string // multipart sibling form fields
	JSONBody    interface{}
	Attachment  *Attachment
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// encodeBody renders the request body. Descriptors with an attachment are
// encoded as multipart; otherwise the JSON body, if any, is marshalled.
// Called once per attempt so each retry gets a fresh reader.
func (d *Descriptor) encodeBody() (*bytes.Buffer, string, error) {
	if d.Attachment != nil {
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)

		for name, value := range d.Fields {
			if err := writer.WriteField(name, value); err != nil {
				return nil, "", fmt.Errorf("failed to write form field %s: %w", name, err)
			}
		}

		part, err := writer.CreateFormFile(AudioFieldName, d.Attachment.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(d.Attachment.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write attachment: %w", err)
		}

		if err := writer.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
		}

		return buf, writer.FormDataContentType(), nil
	}

	if d.JSONBody != nil {
		data, err := json.Marshal(d.JSONBody)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return bytes.NewBuffer(data), "application/json", nil
	}

	return nil, "", nil
}

// url joins the executor base URL, the descriptor path and query string.
func (d *Descriptor) url(baseURL string) string {
	full := baseURL + d.Path
	if len(d.Query) > 0 {
		full += "?" + d.Query.Encode()
	}
	return full
}

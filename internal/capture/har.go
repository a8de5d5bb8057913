package capture

import (
	"encoding/base64"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// Subset of the HAR 1.2 format written by browser devtools.
type harFile struct {
	Log struct {
		Entries []harEntry `json:"entries"`
	} `json:"log"`
}

type harEntry struct {
	StartedDateTime string  `json:"startedDateTime"`
	Time            float64 `json:"time"`
	ResourceType    string  `json:"_resourceType"`
	Request         struct {
		Method string `json:"method"`
		URL    string `json:"url"`
	} `json:"request"`
	Response struct {
		Status  int `json:"status"`
		Content struct {
			MimeType string `json:"mimeType"`
			Text     string `json:"text"`
			Encoding string `json:"encoding"`
		} `json:"content"`
	} `json:"response"`
	Timings struct {
		Wait    float64 `json:"wait"`
		Receive float64 `json:"receive"`
	} `json:"timings"`
}

// LoadHAR reads the exchanges of a HAR export. When the browser annotated
// resource types, only xhr and fetch requests are kept.
func LoadHAR(path string) ([]Exchange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrHAR, "reading %s: %v", path, err)
	}
	return ParseHAR(data)
}

// ParseHAR decodes HAR JSON into exchanges. Entries with an undecodable
// base64 body are skipped.
func ParseHAR(data []byte) ([]Exchange, error) {
	var har harFile
	if err := sonic.Unmarshal(data, &har); err != nil {
		return nil, errors.Wrapf(ErrHAR, "decoding: %v", err)
	}

	out := make([]Exchange, 0, len(har.Log.Entries))
	for _, e := range har.Log.Entries {
		switch e.ResourceType {
		case "", "xhr", "fetch":
		default:
			continue
		}

		body := []byte(e.Response.Content.Text)
		if e.Response.Content.Encoding == "base64" {
			decoded, err := base64.StdEncoding.DecodeString(e.Response.Content.Text)
			if err != nil {
				continue
			}
			body = decoded
		}

		start, _ := time.Parse(time.RFC3339Nano, e.StartedDateTime)
		out = append(out, Exchange{
			Method:       e.Request.Method,
			URL:          e.Request.URL,
			Status:       e.Response.Status,
			ContentType:  e.Response.Content.MimeType,
			ResourceType: e.ResourceType,
			Body:         body,
			Timing: Timing{
				Start:      start.UTC(),
				TTFBMs:     harMs(e.Timings.Wait),
				DownloadMs: harMs(e.Timings.Receive),
				TotalMs:    harMs(e.Time),
			},
		})
	}
	return out, nil
}

// HAR uses -1 for timings that do not apply.
func harMs(v float64) float64 {
	if v < 0 {
		return -1
	}
	return v
}

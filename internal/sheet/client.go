// Package sheet talks to the spreadsheet web app that stores completed
// intake forms: an Apps Script endpoint that appends rows, looks rows up by
// tracking code, and attaches uploaded images to rows.
package sheet

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/saudemt/diskdengue/internal/session"
)

const defaultRequestTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a record-store client. httpClient may be nil, in which
// case a default client with a request timeout is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type appendRequest struct {
	Action string          `json:"action"`
	Data   *session.Record `json:"data"`
}

type appendResponse struct {
	Success bool `json:"success"`
}

type rowResponse struct {
	Success bool `json:"success"`
	Row     int  `json:"linha"`
}

type uploadResponse struct {
	Success bool   `json:"success"`
	Link    string `json:"link"`
}

// AppendRecord sends the record to the store's append endpoint and reports
// whether the store acknowledged it.
func (c *Client) AppendRecord(ctx context.Context, rec *session.Record) (bool, error) {
	body, err := json.Marshal(appendRequest{Action: "salvar_dados", Data: rec})
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build append request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out appendResponse
	if err := c.do(req, &out); err != nil {
		return false, fmt.Errorf("append record: %w", err)
	}
	return out.Success, nil
}

// FindRow looks up the row number previously created for a tracking code.
func (c *Client) FindRow(ctx context.Context, protocol string) (int, error) {
	u := c.baseURL + "?" + url.Values{"protocolo": {protocol}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("build row lookup request: %w", err)
	}

	var out rowResponse
	if err := c.do(req, &out); err != nil {
		return 0, fmt.Errorf("look up row for %s: %w", protocol, err)
	}
	if !out.Success {
		return 0, fmt.Errorf("no row for protocol %s", protocol)
	}
	return out.Row, nil
}

// UploadImage uploads the image tagged to a row and returns the stored link.
func (c *Client) UploadImage(ctx context.Context, img session.Image, row int, filename string) (string, error) {
	params := url.Values{
		"imagemBase64": {base64.StdEncoding.EncodeToString(img.Data)},
		"linha":        {fmt.Sprintf("%d", row)},
		"nomeArquivo":  {filename},
		"tipoArquivo":  {img.MimeType},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if !out.Success {
		return "", fmt.Errorf("store rejected image for row %d", row)
	}
	return out.Link, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"context"
	"io"
	"net/http"

	"gitlab.com/tozd/go/errors"
)

// MaxDocumentSize caps downloaded documents
const MaxDocumentSize = 64 << 20

func init() {
	Register(SchemeHTTP, func(ctx context.Context) (Provider, error) {
		return NewHTTPProvider(http.DefaultClient), nil
	})
}

// 🌐 HTTPProvider downloads documents over HTTP(S)
type HTTPProvider struct {
	client *http.Client
}

func NewHTTPProvider(client *http.Client) *HTTPProvider {
	return &HTTPProvider{client: client}
}

// Resolve returns the URL itself: there is nothing to expand
func (p *HTTPProvider) Resolve(ctx context.Context, location string) ([]string, error) {
	return []string{location}, nil
}

func (p *HTTPProvider) Fetch(ctx context.Context, location string) ([]byte, error) {
	body, err := DownloadFile(ctx, p.client, location)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxDocumentSize+1))
	if err != nil {
		return nil, errors.Errorf("reading response: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return nil, errors.Errorf("document larger than %d bytes", MaxDocumentSize)
	}
	return data, nil
}

// 📥 DownloadFile downloads a file from a URL
func DownloadFile(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

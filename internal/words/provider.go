// internal/words/provider.go
//
// Remote word provider. The reference endpoint answers a GET with a JSON
// array holding one word, e.g. ["chrysanthème"].

package words

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/tidwall/gjson"
)

// DefaultAPIURL returns one random French word.
const DefaultAPIURL = "https://random-word-api.herokuapp.com/word?number=1&lang=fr"

var (
	// ErrProvider wraps every remote word failure.
	ErrProvider = errors.New("words: provider failed")
	// ErrEmptyWord reports a successful response without a usable word.
	ErrEmptyWord = fmt.Errorf("%w: empty payload", ErrProvider)
)

//go:generate go tool mockgen -destination=./mocks/provider_mock.go -package=mocks . Provider

// Provider fetches a single challenge word.
type Provider interface {
	FetchWord(ctx context.Context) (string, error)
}

// HTTPProvider fetches words from a word-list HTTP endpoint.
type HTTPProvider struct {
	URL    string
	Client *http.Client
}

// NewHTTPProvider returns a provider for url whose client gives up after timeout.
func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProvider{URL: url, Client: &http.Client{Timeout: timeout}}
}

// FetchWord GETs the endpoint and extracts the word.
// Only a 200 with a single non-empty word counts as success.
func (p *HTTPProvider) FetchWord(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}
	req.Header.Set("Accept", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", ErrProvider, err)
	}
	return parsePayload(body)
}

// parsePayload accepts a JSON array whose first element is the word, or a
// bare text word.
func parsePayload(body []byte) (string, error) {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return "", ErrEmptyWord
	}
	w := raw
	if strings.HasPrefix(raw, "[") {
		if !gjson.Valid(raw) {
			return "", fmt.Errorf("%w: malformed json", ErrProvider)
		}
		first := gjson.Parse(raw).Get("0")
		if first.Type != gjson.String {
			return "", ErrEmptyWord
		}
		w = strings.TrimSpace(first.String())
	}
	if w == "" {
		return "", ErrEmptyWord
	}
	if strings.ContainsFunc(w, unicode.IsSpace) {
		return "", fmt.Errorf("%w: payload is not a single word", ErrProvider)
	}
	return w, nil
}

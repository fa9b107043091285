package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/idgen"
	"github.com/airtrafficctl/atc/internal/netguard"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
)

const (
	defaultIncludeURLMaxBytes = 262144
	hardCapIncludeURLBytes    = 2 * 1024 * 1024
	fetchTimeout              = 30 * time.Second
)

const includeURLDescription = `Fetches a URL and captures it as session context.

Usage:
- the URL's host must appear in the session's network allowlist; anything else is rejected before any network dial
- HTML responses are converted to Markdown, other content types are stored raw
- a single retry is attempted on a transient 5xx or network-level failure`

// IncludeURLTool implements the include_url built-in.
type IncludeURLTool struct {
	items  store.ContextItemStore
	client *http.Client
}

func NewIncludeURLTool(items store.ContextItemStore) *IncludeURLTool {
	return &IncludeURLTool{items: items, client: &http.Client{Timeout: fetchTimeout}}
}

func (t *IncludeURLTool) ID() string          { return "include_url" }
func (t *IncludeURLTool) Description() string { return includeURLDescription }

func (t *IncludeURLTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"url": {"type": "string"},
			"max_bytes": {"type": "integer", "description": "default 262144, hard cap 2097152"}
		},
		"required": ["url"]
	}`)
}

type includeURLArgs struct {
	URL      string `json:"url"`
	MaxBytes int    `json:"max_bytes"`
}

func (t *IncludeURLTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	var args includeURLArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, core.Wrap(core.KindBadArgs, "invalid include_url arguments", err)
	}
	if args.URL == "" {
		return nil, core.New(core.KindBadArgs, "url is required")
	}
	if args.MaxBytes <= 0 {
		args.MaxBytes = defaultIncludeURLMaxBytes
	}
	if args.MaxBytes > hardCapIncludeURLBytes {
		args.MaxBytes = hardCapIncludeURLBytes
	}

	parsed, err := url.Parse(args.URL)
	if err != nil || parsed.Host == "" {
		return nil, core.Wrap(core.KindBadArgs, "invalid url", err)
	}

	var allowlist []string
	if toolCtx.Settings.NetworkAllowlist != nil {
		allowlist = *toolCtx.Settings.NetworkAllowlist
	}
	if !netguard.IsAllowedHost(allowlist, parsed.Hostname()) {
		return nil, core.New(core.KindForbiddenHost, "host not in network allowlist: "+parsed.Hostname())
	}

	body, contentType, err := t.fetchWithRetry(ctx, args.URL, args.MaxBytes)
	if err != nil {
		return nil, err
	}

	var content string
	if strings.Contains(contentType, "text/html") {
		content, err = convertHTMLToMarkdown(string(body))
		if err != nil {
			return nil, core.Wrap(core.KindUpstreamFailure, "convert HTML body to markdown", err)
		}
	} else {
		content = lossyPreview(body, args.MaxBytes)
	}

	item := &types.ContextItem{
		ID:        idgen.New(),
		SessionID: toolCtx.SessionID,
		Kind:      types.ContextItemURL,
		Reference: args.URL,
		Content:   content,
		Size:      len(body),
	}
	if err := t.items.AddContextItem(ctx, item); err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "persist context item", err)
	}

	dataJSON, _ := json.Marshal(map[string]any{
		"context_item_id": item.ID,
		"bytes":           len(body),
	})

	return &registry.Result{
		Summary: fmt.Sprintf("url:%s bytes:%d", args.URL, len(body)),
		Data:    dataJSON,
	}, nil
}

func (t *IncludeURLTool) fetchWithRetry(ctx context.Context, rawURL string, maxBytes int) ([]byte, string, error) {
	var body []byte
	var contentType string

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(core.Wrap(core.KindBadArgs, "build request", err))
		}

		resp, err := t.client.Do(req)
		if err != nil {
			return err // transient network error, retry
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("upstream returned %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(core.New(core.KindUpstreamFailure, fmt.Sprintf("upstream returned %d", resp.StatusCode)))
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)))
		if err != nil {
			return backoff.Permanent(core.Wrap(core.KindUpstreamFailure, "read response body", err))
		}

		body = data
		contentType = resp.Header.Get("Content-Type")
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1)
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		var coreErr *core.Error
		if ok := asCoreError(err, &coreErr); ok {
			return nil, "", coreErr
		}
		return nil, "", core.Wrap(core.KindUpstreamFailure, "fetch failed", err)
	}
	return body, contentType, nil
}

func asCoreError(err error, target **core.Error) bool {
	for err != nil {
		if ce, ok := err.(*core.Error); ok {
			*target = ce
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

// convertHTMLToMarkdown strips non-content elements with goquery, then
// renders the remaining markup to Markdown so captured web context reads
// naturally rather than as a flat text dump.
func convertHTMLToMarkdown(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, iframe, object, embed").Remove()
	cleaned, err := doc.Html()
	if err != nil {
		return "", err
	}

	converter := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		HorizontalRule:   "---",
		BulletListMarker: "-",
		CodeBlockStyle:   "fenced",
		EmDelimiter:      "*",
	})
	markdown, err := converter.ConvertString(cleaned)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}

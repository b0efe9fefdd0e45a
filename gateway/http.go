package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vortechron/go-itemmedia/models"
)

// ActingUserHeader carries the acting user's id on write calls.
const ActingUserHeader = "X-Acting-User"

// HTTPConfig configures an HTTPGateway.
type HTTPConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// HTTPGateway talks JSON to the hosted platform.
type HTTPGateway struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPGateway creates a gateway for the platform at cfg.BaseURL
func NewHTTPGateway(cfg HTTPConfig) (*HTTPGateway, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPGateway{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// WithHTTPClient swaps the underlying client
func (g *HTTPGateway) WithHTTPClient(c *http.Client) *HTTPGateway {
	g.client = c
	return g
}

func (g *HTTPGateway) CreateItemImage(ctx context.Context, img NewItemImage, actingUserID string) (*models.ItemImage, error) {
	if actingUserID == "" {
		return nil, ErrNoActingUser
	}
	var created models.ItemImage
	path := fmt.Sprintf("/items/%d/images", img.ItemsID)
	if err := g.do(ctx, http.MethodPost, path, actingUserID, img, &created); err != nil {
		return nil, fmt.Errorf("failed to create item image: %w", err)
	}
	return &created, nil
}

func (g *HTTPGateway) UpdateItemImage(ctx context.Context, imageID uint64, patch ItemImagePatch, actingUserID string) error {
	if actingUserID == "" {
		return ErrNoActingUser
	}
	path := fmt.Sprintf("/item-images/%d", imageID)
	if err := g.do(ctx, http.MethodPatch, path, actingUserID, patch, nil); err != nil {
		return fmt.Errorf("failed to update item image %d: %w", imageID, err)
	}
	return nil
}

func (g *HTTPGateway) DeleteItemImage(ctx context.Context, imageID uint64, actingUserID string) error {
	if actingUserID == "" {
		return ErrNoActingUser
	}
	path := fmt.Sprintf("/item-images/%d", imageID)
	if err := g.do(ctx, http.MethodDelete, path, actingUserID, nil, nil); err != nil {
		return fmt.Errorf("failed to delete item image %d: %w", imageID, err)
	}
	return nil
}

func (g *HTTPGateway) CreateItem(ctx context.Context, item *models.Item, actingUserID string) (*models.Item, error) {
	if actingUserID == "" {
		return nil, ErrNoActingUser
	}
	var created models.Item
	if err := g.do(ctx, http.MethodPost, "/items", actingUserID, item, &created); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return &created, nil
}

func (g *HTTPGateway) UpdateItem(ctx context.Context, item *models.Item, actingUserID string) (*models.Item, error) {
	if actingUserID == "" {
		return nil, ErrNoActingUser
	}
	var updated models.Item
	path := fmt.Sprintf("/items/%d", item.ID)
	if err := g.do(ctx, http.MethodPatch, path, actingUserID, item, &updated); err != nil {
		return nil, fmt.Errorf("failed to update item %d: %w", item.ID, err)
	}
	return &updated, nil
}

func (g *HTTPGateway) ListItems(ctx context.Context, opts ListOptions) (*Page, error) {
	opts = NormalizeListOptions(opts)
	q := url.Values{}
	if opts.ItemType != "" {
		q.Set("item_type", string(opts.ItemType))
	}
	q.Set("page", strconv.Itoa(opts.Page))
	q.Set("per_page", strconv.Itoa(opts.PerPage))

	var page Page
	if err := g.do(ctx, http.MethodGet, "/items?"+q.Encode(), "", nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return &page, nil
}

func (g *HTTPGateway) GetItemBySlug(ctx context.Context, slug string) (*models.Item, error) {
	var item models.Item
	path := "/items/slug/" + url.PathEscape(slug)
	if err := g.do(ctx, http.MethodGet, path, "", nil, &item); err != nil {
		return nil, fmt.Errorf("failed to get item %q: %w", slug, err)
	}
	return &item, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path, actingUserID string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	if actingUserID != "" {
		req.Header.Set(ActingUserHeader, actingUserID)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach platform: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

var _ Gateway = (*HTTPGateway)(nil)

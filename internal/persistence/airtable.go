package persistence

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

	"go.uber.org/zap"

	"github.com/strauss-analytics/ticket-intake/internal/config"
)

// Record is one row in the hosted record store. Fields carries the raw
// display-named columns; mapping to the domain entity happens in the
// repository layer.
type Record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

type createRequest struct {
	Fields map[string]any `json:"fields"`
}

// Airtable is a thin REST client for one base/table, authenticated with a
// bearer credential. It performs a single attempt per call; retries are the
// caller's policy (and this system has none).
type Airtable struct {
	cfg        config.AirtableConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAirtable constructs the client.
func NewAirtable(cfg config.AirtableConfig, logger *zap.Logger) *Airtable {
	return &Airtable{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

func (a *Airtable) tableURL() string {
	base := strings.TrimSuffix(a.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/%s/%s", base, a.cfg.BaseID, url.PathEscape(a.cfg.Table))
}

// ListRecords fetches up to maxRecords rows sorted by sortField in the given
// direction ("asc" or "desc").
func (a *Airtable) ListRecords(ctx context.Context, maxRecords int, sortField, sortDirection string) ([]Record, error) {
	params := url.Values{}
	params.Set("maxRecords", strconv.Itoa(maxRecords))
	params.Set("sort[0][field]", sortField)
	params.Set("sort[0][direction]", sortDirection)

	var out listResponse
	if err := a.do(ctx, http.MethodGet, a.tableURL()+"?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// GetRecord fetches a single row by its store-assigned id.
func (a *Airtable) GetRecord(ctx context.Context, recordID string) (*Record, error) {
	if recordID == "" {
		return nil, fmt.Errorf("record id is required")
	}
	var out Record
	if err := a.do(ctx, http.MethodGet, a.tableURL()+"/"+url.PathEscape(recordID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRecord inserts a new row and returns it with the assigned id.
func (a *Airtable) CreateRecord(ctx context.Context, fields map[string]any) (*Record, error) {
	var out Record
	if err := a.do(ctx, http.MethodPost, a.tableURL(), createRequest{Fields: fields}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecord patches only the given fields on an existing row. Keys absent
// from fields are left untouched by the store.
func (a *Airtable) UpdateRecord(ctx context.Context, recordID string, fields map[string]any) (*Record, error) {
	if recordID == "" {
		return nil, fmt.Errorf("record id is required")
	}
	var out Record
	addr := a.tableURL() + "/" + url.PathEscape(recordID)
	if err := a.do(ctx, http.MethodPatch, addr, createRequest{Fields: fields}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping verifies the store is reachable with the configured credential.
func (a *Airtable) Ping(ctx context.Context) error {
	_, err := a.ListRecords(ctx, 1, "Created At", "desc")
	return err
}

func (a *Airtable) do(ctx context.Context, method, address string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, address, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read store response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		a.logger.Error("store call failed",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(raw, 512)))
		return fmt.Errorf("store returned status %d", resp.StatusCode)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode store response: %w", err)
		}
	}
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

// Package rest implements the record store contract against a hosted REST
// table API (PostgREST dialect: one path segment per table, filters encoded
// as query parameters).
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mherrera/rodeo/internal/record"
)

// Store talks to a remote table API over HTTP.
type Store struct {
	httpClient *resty.Client
}

// apiError mirrors the error payload returned by the table API.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// New builds a REST record store for the given base URL. The API key is sent
// both as apikey header and bearer token, which is what hosted table APIs
// expect.
func New(baseURL, apiKey string) *Store {
	client := resty.New()
	client.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetTimeout(15 * time.Second)

	if apiKey != "" {
		client.
			SetHeader("apikey", apiKey).
			SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}

	return &Store{httpClient: client}
}

// List fetches the rows matching filter and decodes them into out.
func (s *Store) List(ctx context.Context, table string, filter record.Filter, out any) error {
	apiErr := new(apiError)

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(toParams(filter)).
		SetError(apiErr).
		Get("/" + table)
	if err != nil {
		return fmt.Errorf("list %s: %w", table, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("list %s: %s", table, describe(resp, apiErr))
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s rows: %w", table, err)
	}
	return nil
}

// Insert posts the rows as a single JSON array.
func (s *Store) Insert(ctx context.Context, table string, rows []any) error {
	if len(rows) == 0 {
		return nil
	}

	apiErr := new(apiError)
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(rows).
		SetError(apiErr).
		Post("/" + table)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("insert into %s: %s", table, describe(resp, apiErr))
	}
	return nil
}

// Update patches the rows matching filter and reports how many came back.
func (s *Store) Update(ctx context.Context, table string, filter record.Filter, patch record.Patch) (int64, error) {
	apiErr := new(apiError)
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(toParams(filter)).
		SetBody(patch).
		SetError(apiErr).
		Patch("/" + table)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return 0, fmt.Errorf("update %s: %s", table, describe(resp, apiErr))
	}
	return countRows(resp.Body()), nil
}

// Delete removes the rows matching filter and reports how many came back.
func (s *Store) Delete(ctx context.Context, table string, filter record.Filter) (int64, error) {
	apiErr := new(apiError)
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(toParams(filter)).
		SetError(apiErr).
		Delete("/" + table)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return 0, fmt.Errorf("delete from %s: %s", table, describe(resp, apiErr))
	}
	return countRows(resp.Body()), nil
}

func countRows(body []byte) int64 {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0
	}
	return int64(len(rows))
}

func describe(resp *resty.Response, apiErr *apiError) string {
	if apiErr != nil && apiErr.Message != "" {
		return fmt.Sprintf("status=%d, message=%s", resp.StatusCode(), apiErr.Message)
	}
	return fmt.Sprintf("status=%d", resp.StatusCode())
}

func toParams(filter record.Filter) url.Values {
	params := url.Values{}
	for field, cond := range filter {
		switch {
		case cond.Null != nil && *cond.Null:
			params[field] = append(params[field], "is.null")
		case cond.Null != nil:
			params[field] = append(params[field], "not.is.null")
		case len(cond.In) > 0:
			params[field] = append(params[field], fmt.Sprintf("in.(%s)", strings.Join(cond.In, ",")))
		case cond.Gte != nil || cond.Lte != nil:
			if cond.Gte != nil {
				params[field] = append(params[field], "gte."+literal(cond.Gte))
			}
			if cond.Lte != nil {
				params[field] = append(params[field], "lte."+literal(cond.Lte))
			}
		default:
			params[field] = append(params[field], "eq."+literal(cond.Eq))
		}
	}
	return params
}

func literal(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

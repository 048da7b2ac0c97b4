// Package search wraps the Exa web-search API as the retrieval
// collaborator for search-augmented turns.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	searchURL = "https://api.exa.ai/search"

	defaultNumResults  = 5
	textLengthLimit    = 500
	excerptLengthLimit = 400
)

// Result is a single retrieved source.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// Client queries Exa for sources relevant to a transcript.
type Client struct {
	apiKey     string
	numResults int
}

type ClientOption func(*Client)

func WithNumResults(numResults int) ClientOption {
	return func(c *Client) {
		if numResults > 0 {
			c.numResults = numResults
		}
	}
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{apiKey: apiKey, numResults: defaultNumResults}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type searchRequestBody struct {
	Query      string          `json:"query"`
	Type       string          `json:"type"`
	NumResults int             `json:"numResults"`
	Contents   contentsRequest `json:"contents"`
}

type contentsRequest struct {
	Text textRequest `json:"text"`
}

type textRequest struct {
	MaxCharacters int `json:"maxCharacters"`
}

type searchResponseBody struct {
	Results []Result `json:"results"`
}

// Search returns up to the configured number of sources for the query.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	ctx, span := tracer.Start(ctx, "search exa")
	defer span.End()
	span.SetAttributes(attribute.String("request.query", query))

	reqBody := searchRequestBody{
		Query:      query,
		Type:       "auto",
		NumResults: c.numResults,
		Contents:   contentsRequest{Text: textRequest{MaxCharacters: textLengthLimit}},
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", searchURL, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	resp, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var responseBody searchResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&responseBody); err != nil {
		err = fmt.Errorf("error unmarshalling response: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("response.result_count", len(responseBody.Results)))
	return responseBody.Results, nil
}

// BuildContext formats retrieved sources into the context block appended
// to the reply prompt.
func BuildContext(results []Result) string {
	var builder strings.Builder
	for i, result := range results {
		excerpt := result.Text
		if len(excerpt) > excerptLengthLimit {
			excerpt = excerpt[:excerptLengthLimit]
		}
		fmt.Fprintf(&builder, "\n--- Source %d: %s ---\n", i+1, result.Title)
		fmt.Fprintf(&builder, "%s...\n", excerpt)
	}
	return builder.String()
}

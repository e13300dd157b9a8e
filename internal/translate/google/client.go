package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/langtable/internal/translate"
	"resty.dev/v3"
)

const DefaultBaseURL = "https://translation.googleapis.com/language/translate"

type Client struct {
	httpClient *resty.Client
}

var _ translate.Client = (*Client)(nil)

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	client.SetQueryParam("key", apiKey)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Client{
		httpClient: client,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

type DetectRequest struct {
	Q []string `json:"q"`
}

type DetectResponse struct {
	Data DetectData `json:"data"`
}

type DetectData struct {
	// One list of candidates per input text, the most likely first
	Detections [][]Detection `json:"detections"`
}

type Detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
	IsReliable bool    `json:"isReliable"`
}

type TranslateRequest struct {
	Q      []string `json:"q"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type TranslateResponse struct {
	Data TranslateData `json:"data"`
}

type TranslateData struct {
	Translations []Translation `json:"translations"`
}

type Translation struct {
	TranslatedText         string `json:"translatedText"`
	DetectedSourceLanguage string `json:"detectedSourceLanguage"`
}

type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Detect implements the translate.Client interface
func (client *Client) Detect(ctx context.Context, texts []string) ([]translate.Detection, error) {
	var body DetectResponse
	if err := client.post(ctx, "/v2/detect", DetectRequest{Q: texts}, &body); err != nil {
		return nil, err
	}

	detections := make([]translate.Detection, 0, len(body.Data.Detections))
	for i, candidates := range body.Data.Detections {
		if len(candidates) == 0 {
			return nil, translate.Malformed("no detection candidates for text #%d", i)
		}
		detections = append(detections, translate.Detection{
			Language:   candidates[0].Language,
			Confidence: candidates[0].Confidence,
		})
	}
	return detections, nil
}

// Translate implements the translate.Client interface
func (client *Client) Translate(ctx context.Context, text string, target string) (translate.Translation, error) {
	var body TranslateResponse
	request := TranslateRequest{
		Q:      []string{text},
		Target: target,
		Format: "text",
	}
	if err := client.post(ctx, "/v2", request, &body); err != nil {
		return translate.Translation{}, err
	}

	if len(body.Data.Translations) != 1 {
		return translate.Translation{}, translate.Malformed("response contains %d translations", len(body.Data.Translations))
	}
	return translate.Translation{
		Text:           body.Data.Translations[0].TranslatedText,
		SourceLanguage: body.Data.Translations[0].DetectedSourceLanguage,
	}, nil
}

// post sends the request and decodes a successful body into result.
// Transport failures and error statuses are transient, undecodable bodies are malformed.
func (client *Client) post(ctx context.Context, path string, request any, result any) error {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		Post(path)
	if err != nil {
		return translate.Transient(0, fmt.Errorf("httpClient.Post(%s) > %w", path, err))
	}
	if response.IsError() {
		message := response.String()
		var errorBody ErrorResponse
		if json.Unmarshal([]byte(message), &errorBody) == nil && errorBody.Error.Message != "" {
			message = errorBody.Error.Message
		}
		return translate.Transient(response.StatusCode(), fmt.Errorf("response error %d: %s", response.StatusCode(), message))
	}

	content := response.String()
	slog.Default().Debug("google translate response",
		"path", path,
		"status", response.StatusCode(),
		"response", content,
	)
	if err := json.Unmarshal([]byte(content), result); err != nil {
		return translate.Malformed("json.Unmarshal(%s) > %v", content, err)
	}
	return nil
}

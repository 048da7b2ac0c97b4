package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rapidanswer/rapidanswer-core/core/audio"
	"github.com/rapidanswer/rapidanswer-core/core/texttospeech"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	speechURL = "https://api.openai.com/v1/audio/speech"

	// chunkSize matches the spacing at which the delivery side frames
	// audio for the client.
	chunkSize = 4096
)

const (
	DefaultModel = "tts-1"
	DefaultVoice = "alloy"
)

// Client synthesizes speech through OpenAI's streaming speech endpoint.
// Output is raw PCM, 24 kHz mono, delivered chunk by chunk.
type Client struct {
	apiKey string
	model  string
	voice  string
}

type ClientOption func(*Client)

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithVoice(voice string) ClientOption {
	return func(c *Client) { c.voice = voice }
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{apiKey: apiKey, model: DefaultModel, voice: DefaultVoice}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// EncodingInfo describes the PCM format this client produces.
func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

type speechRequestBody struct {
	Model          string  `json:"model"`
	Voice          string  `json:"voice"`
	Input          string  `json:"input"`
	Speed          float64 `json:"speed,omitempty"`
	ResponseFormat string  `json:"response_format"`
}

// Synthesize streams the audio for text into the configured chunk
// callback. It returns once the full audio has been delivered, the
// context is cancelled, or the request fails.
func (c *Client) Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) error {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()

	options := texttospeech.SynthesisOptions{
		SpeedMultiplier:    texttospeech.DefaultSpeedMultiplier,
		EncodingInfo:       c.EncodingInfo(),
		AudioChunkCallback: func([]byte) {},
	}
	for _, opt := range opts {
		opt(&options)
	}

	span.SetAttributes(attribute.String("request.model", c.model))
	span.SetAttributes(attribute.String("request.voice", c.voice))
	span.SetAttributes(attribute.Float64("request.speed", options.SpeedMultiplier))
	span.SetAttributes(attribute.Int("request.text_length", len(text)))

	reqBody := speechRequestBody{
		Model:          c.model,
		Voice:          c.voice,
		Input:          text,
		Speed:          options.SpeedMultiplier,
		ResponseFormat: "pcm",
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", speechURL, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	requestStarted := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
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
		return err
	}

	firstChunk := true
	buffer := make([]byte, chunkSize)
	for {
		n, err := io.ReadFull(resp.Body, buffer)
		if n > 0 {
			if firstChunk {
				span.SetAttributes(attribute.Float64("response.request_to_first_audio_time", time.Since(requestStarted).Seconds()))
				firstChunk = false
			}
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])
			options.AudioChunkCallback(chunk)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			err = fmt.Errorf("error reading audio stream: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
}

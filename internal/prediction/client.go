// Package prediction talks to an OpenAI-compatible chat completion endpoint that
// forecasts the next cycle. Endpoint, key and model are configuration only.
package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
	"github.com/terraincognita07/cyclecast/internal/services"
	"go.uber.org/zap"
)

const (
	requestTemperature = 0.3
	requestMaxTokens   = 1500
	DefaultReferer     = "https://cycle-tracker.app"
	DefaultTitle       = "Cycle Tracker AI"
)

type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
	Referer  string
	Title    string
}

func (config Config) Configured() bool {
	return config.Endpoint != "" && config.APIKey != "" && config.Model != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type Client struct {
	httpClient *resty.Client
	config     Config
	now        func() time.Time
	location   *time.Location
	logger     *zap.Logger
}

// NewClient builds a client that issues exactly one request per Predict call.
func NewClient(config Config, now func() time.Time, location *time.Location, logger *zap.Logger) *Client {
	if config.Referer == "" {
		config.Referer = DefaultReferer
	}
	if config.Title == "" {
		config.Title = DefaultTitle
	}
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if config.Timeout > 0 {
		httpClient.SetTimeout(config.Timeout)
	}

	return &Client{
		httpClient: httpClient,
		config:     config,
		now:        now,
		location:   location,
		logger:     logger,
	}
}

func (client *Client) Predict(ctx context.Context, data models.CycleData, profile models.UserProfile) (models.Prediction, error) {
	if !data.HasMinimumData() {
		return models.Prediction{}, ErrInsufficientData
	}
	if !client.config.Configured() {
		return models.Prediction{}, ErrNotConfigured
	}

	now := client.now()
	request := chatRequest{
		Model: client.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt()},
			{Role: "user", Content: BuildUserMessage(data, profile, caldate.FromTime(now, client.location))},
		},
		Temperature: requestTemperature,
		MaxTokens:   requestMaxTokens,
	}

	client.logger.Info("calling prediction api",
		zap.String("model", client.config.Model),
		zap.String("endpoint", client.config.Endpoint),
	)

	resp, err := client.httpClient.R().
		SetContext(ctx).
		SetAuthToken(client.config.APIKey).
		SetHeader("HTTP-Referer", client.config.Referer).
		SetHeader("X-Title", client.config.Title).
		SetBody(request).
		Post(client.config.Endpoint)
	if err != nil {
		client.logger.Error("prediction api call failed", zap.Error(err))
		return models.Prediction{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if !resp.IsSuccess() {
		statusErr := newStatusError(resp.StatusCode(), resp.String())
		client.logger.Error("prediction api returned error status",
			zap.Int("status_code", statusErr.StatusCode),
			zap.String("body", statusErr.Body),
		)
		return models.Prediction{}, statusErr
	}

	content, err := ExtractContent(resp.Body())
	if err != nil {
		client.logger.Warn("prediction api response unusable", zap.Error(err))
		return models.Prediction{}, err
	}

	prediction, err := ParsePrediction(content)
	if err != nil {
		client.logger.Warn("prediction content rejected", zap.Error(err))
		return models.Prediction{}, err
	}

	prediction = finalizePrediction(prediction, now.UTC(), services.DataHash(data))
	client.logger.Info("prediction parsed",
		zap.String("model", client.config.Model),
		zap.Int("confidence", prediction.Confidence),
	)
	return prediction, nil
}

package recognize

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	ooption "github.com/openai/openai-go/option"
	oresponses "github.com/openai/openai-go/responses"
	oshared "github.com/openai/openai-go/shared"

	"decklens/internal/logging"
	"decklens/internal/services"
)

// Vision extracts tokens by sending the screenshot to a vision-language
// model through the Responses API.
type Vision struct {
	client          openai.Client
	model           string
	maxOutputTokens int64
	timeout         time.Duration
	logger          *slog.Logger
}

var _ Recognizer = (*Vision)(nil)

// VisionOptions configures a Vision recognizer.
type VisionOptions struct {
	APIKey          string
	BaseURL         string // optional OpenAI-compatible endpoint
	Model           string
	MaxOutputTokens int
	Timeout         time.Duration
	Logger          *slog.Logger
}

// NewVision creates the vision recognizer.
func NewVision(opts VisionOptions) (*Vision, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("vision api key required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, errors.New("vision model required")
	}

	clientOpts := []ooption.RequestOption{ooption.WithAPIKey(apiKey)}
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		clientOpts = append(clientOpts, ooption.WithBaseURL(baseURL))
	}

	maxOutput := int64(opts.MaxOutputTokens)
	if maxOutput <= 0 {
		maxOutput = 4000
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Vision{
		client:          openai.NewClient(clientOpts...),
		model:           model,
		maxOutputTokens: maxOutput,
		timeout:         timeout,
		logger:          logging.NewComponentLogger(logger, "vision"),
	}, nil
}

// Recognize sends one zone image to the model and parses the reply.
func (v *Vision) Recognize(ctx context.Context, req Request) (*Result, error) {
	if len(req.Image) == 0 {
		return nil, services.Wrap(services.ErrCatastrophic, "recognize", "vision", "empty image", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	params := oresponses.ResponseNewParams{
		Model:           oshared.ResponsesModel(v.model),
		MaxOutputTokens: openai.Int(v.maxOutputTokens),
		Temperature:     openai.Float(temperatureFor(req.Attempt)),
	}

	content := oresponses.ResponseInputMessageContentListParam{
		oresponses.ResponseInputContentUnionParam{
			OfInputText: &oresponses.ResponseInputTextParam{Text: buildPrompt(req)},
		},
		oresponses.ResponseInputContentUnionParam{
			OfInputImage: &oresponses.ResponseInputImageParam{
				Detail:   detailFor(req.Attempt),
				ImageURL: openai.String(dataURL(req.Image, req.MIME)),
			},
		},
	}
	items := oresponses.ResponseInputParam{
		oresponses.ResponseInputItemParamOfMessage(content, oresponses.EasyInputMessageRoleUser),
	}
	params.Input = oresponses.ResponseNewParamsInputUnion{OfInputItemList: items}

	started := time.Now()
	resp, err := v.client.Responses.New(ctx, params)
	latency := time.Since(started)
	if err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, "recognize", "vision",
				fmt.Sprintf("model call exceeded %v", v.timeout), err)
		}
		return nil, services.Wrap(services.ErrTransient, "recognize", "vision", "model call failed", err)
	}

	text := resp.OutputText()
	result := parseOutput(text, req.Zone)
	result.Stamp("vision")
	if len(result.Tokens) == 0 {
		return nil, services.Wrap(services.ErrRecognition, "recognize", "vision",
			"model reply contained no card lines", nil)
	}

	v.logger.Debug("vision attempt parsed",
		logging.String(logging.FieldZone, string(req.Zone)),
		logging.Int("attempt", req.Attempt),
		logging.Int("tokens", len(result.Tokens)),
		logging.Int("cards", result.CardCount()),
		logging.Duration("latency", latency))
	return result, nil
}

// temperatureFor keeps early attempts deterministic and lets later ones
// explore slightly.
func temperatureFor(attempt int) float64 {
	if attempt >= 4 {
		return 0.2
	}
	return 0.1
}

// detailFor requests full-resolution analysis once cheap reads have failed
// twice.
func detailFor(attempt int) oresponses.ResponseInputImageDetail {
	if attempt >= 3 {
		return oresponses.ResponseInputImageDetailHigh
	}
	return oresponses.ResponseInputImageDetailAuto
}

func dataURL(image []byte, mime string) string {
	if strings.TrimSpace(mime) == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image)
}

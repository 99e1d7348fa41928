package ollama

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/poiesic/flowdex/ai"
)

// Describer implements ai.ImageDescriber using an Ollama vision model.
type Describer struct {
	llm     *ollama.LLM
	timeout timeoutFunc
	logger  *slog.Logger
}

// newDescriber is an internal constructor that returns the concrete type.
func newDescriber(config *ai.Config) (*Describer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := ollama.New(
		ollama.WithServerURL(config.Host),
		ollama.WithModel(config.VisionModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	visionTimeout := config.VisionTimeout
	return &Describer{
		llm: llm,
		timeout: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, visionTimeout)
		},
		logger: slog.Default().With("component", "ollama-describer"),
	}, nil
}

// NewDescriber creates a new image describer using the provided configuration.
//
// Returns ai.ImageDescriber interface to enforce abstraction.
func NewDescriber(config *ai.Config) (ai.ImageDescriber, error) {
	return newDescriber(config)
}

// DescribeImage returns a textual description of the image bytes.
// An empty prompt selects ai.DefaultVisionPrompt.
func (d *Describer) DescribeImage(ctx context.Context, image []byte, prompt string) (string, error) {
	if prompt == "" {
		prompt = ai.DefaultVisionPrompt
	}
	d.logger.Debug("describing image", "bytes", len(image))

	ctx, cancel := d.timeout(ctx)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
				llms.BinaryPart(sniffImageMIME(image), image),
			},
		},
	}

	resp, err := d.llm.GenerateContent(ctx, content)
	if err != nil {
		d.logger.Error("vision request failed", "err", err)
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in vision response", ai.ErrMalformedResponse)
	}

	desc := strings.TrimSpace(resp.Choices[0].Content)
	if desc == "" {
		return "", fmt.Errorf("%w: empty image description", ai.ErrMalformedResponse)
	}
	return desc, nil
}

// Magic prefixes for the raster formats the vision model accepts.
var (
	magicJPEG = []byte{0xff, 0xd8, 0xff}
	magicPNG  = []byte("\x89PNG")
	magicGIF7 = []byte("GIF87a")
	magicGIF9 = []byte("GIF89a")
	magicRIFF = []byte("RIFF")
	magicWEBP = []byte("WEBP")
)

// sniffImageMIME determines the image MIME type from magic bytes.
// Unknown content falls back to PNG, which the vision endpoint accepts
// for any base64 payload anyway.
func sniffImageMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, magicJPEG):
		return "image/jpeg"
	case bytes.HasPrefix(data, magicPNG):
		return "image/png"
	case bytes.HasPrefix(data, magicGIF7), bytes.HasPrefix(data, magicGIF9):
		return "image/gif"
	case bytes.HasPrefix(data, magicRIFF) && len(data) >= 12 && bytes.Equal(data[8:12], magicWEBP):
		return "image/webp"
	default:
		return "image/png"
	}
}

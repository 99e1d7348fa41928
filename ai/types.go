package ai

import "strings"

// DefaultVisionPrompt is used when a caller does not supply a prompt
// for image description.
const DefaultVisionPrompt = "Describe this image in detail, including objects, people, text, colors, and setting."

// DimensionProbe is the fixed sample text embedded once per model to
// discover its vector dimensionality.
const DimensionProbe = "Sample text for dimension detection"

// ModelInfo describes a single model reported by the inference server.
type ModelInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
}

// ModelCatalog groups available models by capability.
type ModelCatalog struct {
	Embedding []string
	Vision    []string
	Chat      []string
}

// visionFamilies are model name markers for multimodal models.
var visionFamilies = []string{"llava", "bakllava", "moondream", "vision"}

// Categorize splits a model list into embedding, vision and chat
// capabilities based on well-known name markers.
func Categorize(models []ModelInfo) ModelCatalog {
	var cat ModelCatalog
	for _, m := range models {
		name := strings.ToLower(m.Name)
		switch {
		case strings.Contains(name, "embed"):
			cat.Embedding = append(cat.Embedding, m.Name)
		case hasVisionMarker(name):
			cat.Vision = append(cat.Vision, m.Name)
		default:
			cat.Chat = append(cat.Chat, m.Name)
		}
	}
	return cat
}

func hasVisionMarker(name string) bool {
	for _, marker := range visionFamilies {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

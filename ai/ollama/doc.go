// Package ollama implements the ai interfaces against a local or
// remote Ollama server. Embedding and vision calls go through
// langchaingo; the model listing endpoint is called directly because
// langchaingo does not expose it.
package ollama

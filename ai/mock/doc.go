// Package mock provides test doubles for the ai interfaces.
//
// The mocks generate deterministic output by default so tests can make
// stable assertions without an inference server. Custom behavior is
// injected via function fields:
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("boom")
//	}
package mock

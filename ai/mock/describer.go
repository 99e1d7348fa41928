package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
)

// MockDescriber is a test double for ai.ImageDescriber.
// It allows custom behavior injection via function fields.
type MockDescriber struct {
	// DescribeImageFunc is called by DescribeImage if set.
	// If nil, uses default deterministic behavior.
	DescribeImageFunc func(ctx context.Context, image []byte, prompt string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockDescriber creates a mock describer with default deterministic behavior.
// Note: Returns concrete type to allow call-count assertions.
func NewMockDescriber() *MockDescriber {
	return &MockDescriber{}
}

// DescribeImage returns a deterministic description derived from the
// image bytes, so identical content yields identical descriptions.
func (m *MockDescriber) DescribeImage(ctx context.Context, image []byte, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.DescribeImageFunc != nil {
		return m.DescribeImageFunc(ctx, image, prompt)
	}

	h := fnv.New32a()
	h.Write(image)
	return fmt.Sprintf("mock description %08x (%d bytes)", h.Sum32(), len(image)), nil
}

// CallCount returns the number of times DescribeImage was called.
func (m *MockDescriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockDescriber) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.DescribeImageFunc = nil
}

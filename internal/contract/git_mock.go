package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a testify mock for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []interface{}
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// ListTags implements the GitClient interface.
func (m *MockGitClient) ListTags(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	tags, _ := ret.Get(0).([]string)
	return tags, ret.Error(1)
}

// FetchTags implements the GitClient interface.
func (m *MockGitClient) FetchTags(ctx context.Context, repoPath string) error {
	ret := m.Called(ctx, repoPath)
	return ret.Error(0)
}

// TagDate implements the GitClient interface.
func (m *MockGitClient) TagDate(ctx context.Context, repoPath string, tag string) (time.Time, error) {
	ret := m.Called(ctx, repoPath, tag)
	t, _ := ret.Get(0).(time.Time)
	return t, ret.Error(1)
}

// LogRange implements the GitClient interface.
func (m *MockGitClient) LogRange(ctx context.Context, repoPath string, fromTag, toTag string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, fromTag, toTag)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// initScratchRepo creates a throwaway git repository with two tagged commits.
func initScratchRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v failed: %s", args, out)
	}

	run("init")
	require.NoError(t, os.WriteFile(dir+"/api.go", []byte("package api\n"), 0o644))
	run("add", ".")
	run("commit", "-m", "feat: add api")
	run("tag", "0.1.0rc1")
	require.NoError(t, os.WriteFile(dir+"/api.go", []byte("package api\n\n// v2\n"), 0o644))
	run("add", ".")
	run("commit", "-m", "fix: harden api")
	run("tag", "0.1.0rc2")
	run("tag", "0.1.0")
	return dir
}

// TestMockGitClient_Run ensures the mock correctly records and returns
// expected values when its Run method is called.
func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)

	const expectedRepoPath = "/path/to/repo"
	expectedArgs := []string{"log", "-1", "--oneline"}

	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	// The Run implementation in MockGitClient flattens (ctx, repoPath,
	// args...) into a single []any for m.Called(), so .On() must match
	// that structure.
	var calledArgs []any
	ctx := context.Background()
	calledArgs = append(calledArgs, ctx, expectedRepoPath)
	for _, arg := range expectedArgs {
		calledArgs = append(calledArgs, arg)
	}

	mockClient.
		On("Run", calledArgs...).
		Return(expectedOutput, expectedError).
		Once()

	actualOutput, actualError := mockClient.Run(ctx, expectedRepoPath, expectedArgs...)

	assert.Equal(t, expectedOutput, actualOutput, "Run should return the programmed output")
	assert.Equal(t, expectedError, actualError, "Run should return the programmed error")
	mockClient.AssertExpectations(t)
}

// TestNewLocalGitClient tests the constructor for LocalGitClient.
func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client, "NewLocalGitClient should return a non-nil client")
	assert.IsType(t, &LocalGitClient{}, client, "NewLocalGitClient should return a LocalGitClient instance")
}

// TestLocalGitClient_Run tests the Run method with various scenarios.
func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initScratchRepo(t)

	tests := []struct {
		name        string
		repoPath    string
		args        []string
		expectError bool
	}{
		{
			name:        "valid command",
			repoPath:    repo,
			args:        []string{"status"},
			expectError: false,
		},
		{
			name:        "invalid repo path",
			repoPath:    "/nonexistent/path",
			args:        []string{"status"},
			expectError: true,
		},
		{
			name:        "invalid git command",
			repoPath:    repo,
			args:        []string{"invalid-command"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Run(ctx, tt.repoPath, tt.args...)
			if tt.expectError {
				assert.Error(t, err, "Run should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "Run should not return an error for %s", tt.name)
			}
		})
	}
}

// TestLocalGitClient_GetRepoRoot tests the GetRepoRoot method.
func TestLocalGitClient_GetRepoRoot(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initScratchRepo(t)

	root, err := client.GetRepoRoot(ctx, repo)
	assert.NoError(t, err, "GetRepoRoot should not return an error for a git directory")
	assert.NotEmpty(t, root, "GetRepoRoot should return a non-empty root path")

	// Resolving the root again should be a fixed point
	root2, err := client.GetRepoRoot(ctx, root)
	assert.NoError(t, err)
	assert.Equal(t, root, root2)

	_, err = client.GetRepoRoot(ctx, "/nonexistent/path")
	assert.Error(t, err, "GetRepoRoot should return an error for non-git directory")
}

// TestLocalGitClient_ListTags tests tag listing against a scratch repo.
func TestLocalGitClient_ListTags(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initScratchRepo(t)

	tags, err := client.ListTags(ctx, repo)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"0.1.0", "0.1.0rc1", "0.1.0rc2"}, tags)
}

// TestLocalGitClient_TagDate tests the tag date lookup.
func TestLocalGitClient_TagDate(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initScratchRepo(t)

	date, err := client.TagDate(ctx, repo, "0.1.0")
	assert.NoError(t, err, "TagDate should not return an error for an existing tag")
	assert.False(t, date.IsZero(), "TagDate should return a valid time")

	_, err = client.TagDate(ctx, repo, "9.9.9")
	assert.Error(t, err, "TagDate should return an error for a missing tag")
}

// TestLocalGitClient_LogRange tests the commit log between two tags.
func TestLocalGitClient_LogRange(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initScratchRepo(t)

	out, err := client.LogRange(ctx, repo, "0.1.0rc1", "0.1.0rc2")
	assert.NoError(t, err)
	assert.Contains(t, string(out), "fix: harden api")
	assert.Contains(t, string(out), "api.go")
	assert.NotContains(t, string(out), "feat: add api")

	_, err = client.LogRange(ctx, repo, "0.1.0rc1", "missing-tag")
	assert.Error(t, err, "LogRange should return an error for an unknown tag")
}

// TestLocalGitClient_GetRepoHash tests the HEAD hash lookup.
func TestLocalGitClient_GetRepoHash(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initScratchRepo(t)

	hash, err := client.GetRepoHash(ctx, repo)
	assert.NoError(t, err)
	assert.Len(t, hash, 40, "GetRepoHash should return a full SHA-1 hash")
}

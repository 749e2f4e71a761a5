package core

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameOnlyLog(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		bumpMarker string
		expected   []schema.Commit
	}{
		{
			name: "single commit with files",
			input: "a1b2c3d4 fix: handle empty tags\n" +
				"core/tags.go\n" +
				"core/tags_test.go\n",
			expected: []schema.Commit{
				{Hash: "a1b2c3d4", Summary: "fix: handle empty tags", Files: []string{"core/tags.go", "core/tags_test.go"}},
			},
		},
		{
			name: "multiple commits with blank separators",
			input: "a1b2c3d4 fix: handle empty tags\n" +
				"core/tags.go\n" +
				"\n" +
				"deadbeef feat: add scatter chart\n" +
				"chart/scatter.go\n" +
				"chart/scatter_test.go\n",
			expected: []schema.Commit{
				{Hash: "a1b2c3d4", Summary: "fix: handle empty tags", Files: []string{"core/tags.go"}},
				{Hash: "deadbeef", Summary: "feat: add scatter chart", Files: []string{"chart/scatter.go", "chart/scatter_test.go"}},
			},
		},
		{
			name: "bump commits excluded",
			input: "a1b2c3d4 chore: bump version to 0.19.0\n" +
				"VERSION\n" +
				"\n" +
				"deadbeef fix: real work\n" +
				"core/core.go\n",
			bumpMarker: "chore: bump version",
			expected: []schema.Commit{
				{Hash: "deadbeef", Summary: "fix: real work", Files: []string{"core/core.go"}},
			},
		},
		{
			name: "commit with no files",
			input: "a1b2c3d4 chore: empty merge\n" +
				"\n" +
				"deadbeef fix: touch one file\n" +
				"main.go\n",
			expected: []schema.Commit{
				{Hash: "a1b2c3d4", Summary: "chore: empty merge"},
				{Hash: "deadbeef", Summary: "fix: touch one file", Files: []string{"main.go"}},
			},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []schema.Commit{},
		},
		{
			name: "short hex path not mistaken for header",
			input: "a1b2c3d4 fix: rename data dirs\n" +
				"abc123/data.csv\n",
			expected: []schema.Commit{
				{Hash: "a1b2c3d4", Summary: "fix: rename data dirs", Files: []string{"abc123/data.csv"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseNameOnlyLog([]byte(tt.input), tt.bumpMarker)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractCommits(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{RepoPath: "/repo", BumpMarker: "chore: bump version"}
	group := schema.ReleaseGroup{Version: "0.19.0", RCTags: []string{"0.19.0rc1", "0.19.0rc2", "0.19.0rc3"}}

	logOutput := "a1b2c3d4 fix: seatbelts\ncore/core.go\n"

	mockClient := new(contract.MockGitClient)
	mockClient.On("LogRange", ctx, "/repo", "0.19.0rc1", "0.19.0rc3").
		Return([]byte(logOutput), nil)

	commits, err := extractCommits(ctx, cfg, mockClient, group)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "a1b2c3d4", commits[0].Hash)
	mockClient.AssertExpectations(t)
}

func TestExtractCommitsError(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{RepoPath: "/repo"}
	group := schema.ReleaseGroup{Version: "0.19.0", RCTags: []string{"0.19.0rc1", "0.19.0rc2"}}

	mockClient := new(contract.MockGitClient)
	mockClient.On("LogRange", ctx, "/repo", "0.19.0rc1", "0.19.0rc2").
		Return([]byte(nil), errors.New("bad revision"))

	_, err := extractCommits(ctx, cfg, mockClient, group)
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hibou-sem/hibou/internal/process"
	"github.com/hibou-sem/hibou/internal/verdict"
)

func TestHasSpecAndTraceExt(t *testing.T) {
	require.True(t, HasSpecExt("foo.hsf"))
	require.False(t, HasSpecExt("foo.hxtf"))
	require.True(t, HasTraceExt("foo.hxtf"))
	require.False(t, HasTraceExt("foo"))
}

func TestTrimSpecExt(t *testing.T) {
	require.Equal(t, "foo", TrimSpecExt("foo.hsf"))
	require.Equal(t, "foo.hxtf", TrimSpecExt("foo.hxtf"))
}

func TestDefaultExploreOptions(t *testing.T) {
	opts := DefaultExploreOptions()
	require.Equal(t, process.BFS, opts.Strategy)
	require.Equal(t, process.UnTimed, opts.Temporality)
	require.Nil(t, opts.Goal)
	require.Len(t, opts.PreFilters, 1)
	require.Equal(t, process.PreFilterMaxLoopInstanciation, opts.PreFilters[0].Kind)
	require.Equal(t, uint32(1), opts.PreFilters[0].Threshold)
}

func TestDefaultAnalyzeOptions(t *testing.T) {
	opts := DefaultAnalyzeOptions()
	require.Equal(t, process.BFS, opts.Strategy)
	require.Empty(t, opts.PreFilters)
	require.NotNil(t, opts.Goal)
	require.Equal(t, verdict.Pass, *opts.Goal)
}

func TestLoadProjectFileMissingIsNotAnError(t *testing.T) {
	pf, err := LoadProjectFile(filepath.Join(t.TempDir(), "missing-hibou.yaml"))
	require.NoError(t, err)
	require.Nil(t, pf)
}

func TestLoadProjectFileParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hibou.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: DFS\ntemporality: timed\ngoal: weakpass\n"), 0o644))

	pf, err := LoadProjectFile(path)
	require.NoError(t, err)
	require.NotNil(t, pf)
	require.Equal(t, "DFS", pf.Strategy)
	require.Equal(t, "timed", pf.Temporality)
	require.Equal(t, "weakpass", pf.Goal)
}

func TestLoadProjectFileRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hibou.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: [unterminated\n"), 0o644))

	_, err := LoadProjectFile(path)
	require.Error(t, err)
}

func TestEncodeYAMLWritesStrategyField(t *testing.T) {
	opts := DefaultExploreOptions()
	out, err := EncodeYAML(opts)
	require.NoError(t, err)
	require.Contains(t, string(out), "strategy")
}

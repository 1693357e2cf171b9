package toolrunner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhasspy-grammar/grammarfst/internal/toolrunner"
)

func TestFakeRunReturnsScriptedResponse(t *testing.T) {
	f := toolrunner.NewFake()
	f.On("fstcompile", toolrunner.Script{Stdout: []byte("compiled")})

	out, err := f.Run(context.Background(), []string{"fstcompile", "--arc_type=log"}, []byte("in"))
	require.NoError(t, err)
	assert.Equal(t, "compiled", string(out))
	require.Len(t, f.Invocations, 1)
	assert.Equal(t, "fstcompile --arc_type=log", f.Joined(0))
}

func TestFakeRunReturnsToolErrorOnScriptedFailure(t *testing.T) {
	f := toolrunner.NewFake()
	wantErr := errors.New("boom")
	f.On("fstcompose", toolrunner.Script{Stderr: "bad symbol", Err: wantErr})

	_, err := f.Run(context.Background(), []string{"fstcompose", "a.fst", "b.fst"}, nil)
	require.Error(t, err)

	var toolErr *toolrunner.ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "bad symbol", toolErr.Stderr)
	assert.ErrorIs(t, toolErr, wantErr)
}

func TestFakeRunEmptyArgvIsError(t *testing.T) {
	f := toolrunner.NewFake()
	_, err := f.Run(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestFakeRunFallsBackToDefaultResponse(t *testing.T) {
	f := toolrunner.NewFake()
	f.Default = toolrunner.Script{Stdout: []byte("default output")}

	out, err := f.Run(context.Background(), []string{"whatever"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "default output", string(out))
}

func TestFakeRunPipelineKeysOnFirstStageProgram(t *testing.T) {
	f := toolrunner.NewFake()
	f.On("fstcompile", toolrunner.Script{Stdout: []byte("binary fst")})

	stages := [][]string{
		{"fstcompile", "--arc_type=log"},
		{"fstarcsort"},
		{"fstconvert"},
	}
	out, err := f.RunPipeline(context.Background(), stages, []byte("text fst"))
	require.NoError(t, err)
	assert.Equal(t, "binary fst", string(out))

	require.Len(t, f.Invocations, 1)
	assert.Equal(t, []byte("text fst"), f.Invocations[0].Stdin)
	assert.Equal(t, "fstcompile --arc_type=log | fstarcsort | fstconvert", f.Joined(0))
}

func TestFakeRunPipelinePropagatesScriptedError(t *testing.T) {
	f := toolrunner.NewFake()
	f.On("fstcompose", toolrunner.Script{Err: errors.New("compose failed")})

	_, err := f.RunPipeline(context.Background(), [][]string{{"fstcompose"}, {"fstarcsort"}}, nil)
	assert.Error(t, err)
}

func TestFakeRunPipelineEmptyStagesIsError(t *testing.T) {
	f := toolrunner.NewFake()
	_, err := f.RunPipeline(context.Background(), nil, nil)
	assert.Error(t, err)

	_, err = f.RunPipeline(context.Background(), [][]string{{}}, nil)
	assert.Error(t, err)
}

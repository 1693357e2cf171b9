package toolrunner

import (
	"context"
	"fmt"
	"strings"
)

// Invocation records one call made through a Fake, for assertions in tests.
type Invocation struct {
	Argv  []string   // Run
	Stages [][]string // RunPipeline
	Stdin []byte
}

// Script is the canned response a Fake returns for one program name.
type Script struct {
	Stdout []byte
	Stderr string
	Err    error
}

// Fake is a scripted Runner: it records every invocation and returns a
// pre-programmed response keyed by the command's argv[0] (or the first
// stage's argv[0] for a pipeline), so compiler/resolver/nbest tests never
// shell out to real OpenFst or phonetisaurus binaries.
type Fake struct {
	Invocations []Invocation
	Responses   map[string]Script
	Default     Script
}

// NewFake creates an empty Fake; populate Responses before use.
func NewFake() *Fake {
	return &Fake{Responses: make(map[string]Script)}
}

// On registers the response for commands whose argv[0] equals program.
func (f *Fake) On(program string, resp Script) {
	f.Responses[program] = resp
}

func (f *Fake) lookup(program string) Script {
	if resp, ok := f.Responses[program]; ok {
		return resp
	}
	return f.Default
}

func (f *Fake) Run(_ context.Context, argv []string, stdin []byte) ([]byte, error) {
	f.Invocations = append(f.Invocations, Invocation{Argv: argv, Stdin: stdin})
	if len(argv) == 0 {
		return nil, fmt.Errorf("toolrunner fake: empty argv")
	}
	resp := f.lookup(argv[0])
	if resp.Err != nil {
		return nil, &ToolError{Argv: argv, Stderr: resp.Stderr, Err: resp.Err}
	}
	return resp.Stdout, nil
}

func (f *Fake) RunPipeline(_ context.Context, stages [][]string, stdin []byte) ([]byte, error) {
	f.Invocations = append(f.Invocations, Invocation{Stages: stages, Stdin: stdin})
	if len(stages) == 0 || len(stages[0]) == 0 {
		return nil, fmt.Errorf("toolrunner fake: empty pipeline")
	}
	resp := f.lookup(stages[0][0])
	if resp.Err != nil {
		return nil, &ToolError{Argv: stages[0], Stderr: resp.Stderr, Err: resp.Err}
	}
	return resp.Stdout, nil
}

// Joined returns the space-joined argv of the n-th invocation, for
// assertions like require.Contains(t, fake.Joined(0), "fstcompile").
func (f *Fake) Joined(n int) string {
	inv := f.Invocations[n]
	if inv.Argv != nil {
		return strings.Join(inv.Argv, " ")
	}
	parts := make([]string, len(inv.Stages))
	for i, s := range inv.Stages {
		parts[i] = strings.Join(s, " ")
	}
	return strings.Join(parts, " | ")
}

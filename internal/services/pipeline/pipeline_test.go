package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(ctx context.Context, source interfaces.DocumentSource) (string, error) {
	return s.text, s.err
}

type stubPrompts struct {
	budget int
}

func (s *stubPrompts) Build(text string, opts interfaces.PromptOptions) string {
	return "summarize: " + text
}

func (s *stubPrompts) BuildMerge(summaries []string, opts interfaces.PromptOptions) string {
	return "merge: " + strings.Join(summaries, " | ")
}

func (s *stubPrompts) TokenBudget(profile string) int {
	return s.budget
}

type stubGenerator struct {
	fragments     []string
	streamErr     error
	completeText  string
	completeErr   error
	generateCalls atomic.Int32
	completeCalls atomic.Int32
}

func (s *stubGenerator) Generate(ctx context.Context, prompt, model string) *interfaces.SummaryStream {
	s.generateCalls.Add(1)
	stream := interfaces.NewSummaryStream(len(s.fragments))
	go func() {
		for _, f := range s.fragments {
			if !stream.Send(ctx, f) {
				stream.Close(ctx.Err())
				return
			}
		}
		stream.Close(s.streamErr)
	}()
	return stream
}

func (s *stubGenerator) Complete(ctx context.Context, prompt, model string) (string, error) {
	s.completeCalls.Add(1)
	return s.completeText, s.completeErr
}

func (s *stubGenerator) HealthCheck(ctx context.Context) error { return nil }
func (s *stubGenerator) Name() string                          { return "stub" }

func newTestPipeline(extractor interfaces.TextExtractor, generator interfaces.GenerationService, budget int) *Service {
	return NewService(
		common.PipelineConfig{TokenLimit: budget},
		extractor,
		&stubPrompts{budget: budget},
		generator,
		arbor.NewLogger(),
	)
}

func drain(stream *interfaces.SummaryStream) ([]string, error) {
	var fragments []string
	for f := range stream.Fragments() {
		fragments = append(fragments, f)
	}
	return fragments, stream.Err()
}

func TestPipeline_Summarize(t *testing.T) {
	generator := &stubGenerator{fragments: []string{"A ", "summary."}}
	pipeline := newTestPipeline(&stubExtractor{text: "Document text."}, generator, 3000)

	stream := pipeline.Summarize(context.Background(), interfaces.URLSource("http://example.com"), interfaces.SummaryOptions{})
	fragments, err := drain(stream)

	require.NoError(t, err)
	assert.Equal(t, []string{"A ", "summary."}, fragments)
	assert.Equal(t, int32(1), generator.generateCalls.Load())
	assert.Equal(t, int32(0), generator.completeCalls.Load())
}

func TestPipeline_ExtractionFailureSkipsGeneration(t *testing.T) {
	generator := &stubGenerator{fragments: []string{"never seen"}}
	extractErr := fmt.Errorf("fetch: %w", interfaces.ErrUnreachable)
	pipeline := newTestPipeline(&stubExtractor{err: extractErr}, generator, 3000)

	stream := pipeline.Summarize(context.Background(), interfaces.URLSource("http://example.com"), interfaces.SummaryOptions{})
	fragments, err := drain(stream)

	assert.Empty(t, fragments)
	require.Error(t, err)

	var pipeErr *interfaces.PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, interfaces.StageExtract, pipeErr.Stage)
	assert.ErrorIs(t, err, interfaces.ErrUnreachable)

	assert.Equal(t, int32(0), generator.generateCalls.Load())
	assert.Equal(t, int32(0), generator.completeCalls.Load())
}

func TestPipeline_GenerationFailure(t *testing.T) {
	generator := &stubGenerator{
		fragments: []string{"partial "},
		streamErr: fmt.Errorf("decode: %w", interfaces.ErrStreamFault),
	}
	pipeline := newTestPipeline(&stubExtractor{text: "Document text."}, generator, 3000)

	stream := pipeline.Summarize(context.Background(), interfaces.FileSource("doc.pdf", []byte("%PDF")), interfaces.SummaryOptions{})
	fragments, err := drain(stream)

	// fragments delivered before the fault stay delivered
	assert.Equal(t, []string{"partial "}, fragments)

	var pipeErr *interfaces.PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, interfaces.StageGenerate, pipeErr.Stage)
	assert.ErrorIs(t, err, interfaces.ErrStreamFault)
}

func TestPipeline_LongDocumentMapReduce(t *testing.T) {
	longText := strings.Repeat("Sentence about the topic. ", 200)
	generator := &stubGenerator{
		fragments:    []string{"Final ", "summary."},
		completeText: "A chunk summary.",
	}
	pipeline := newTestPipeline(&stubExtractor{text: longText}, generator, 200)

	stream := pipeline.Summarize(context.Background(), interfaces.URLSource("http://example.com"), interfaces.SummaryOptions{})
	fragments, err := drain(stream)

	require.NoError(t, err)
	assert.Equal(t, []string{"Final ", "summary."}, fragments)
	// chunk passes plus at least one merge, then exactly one streamed pass
	assert.Greater(t, generator.completeCalls.Load(), int32(1))
	assert.Equal(t, int32(1), generator.generateCalls.Load())
}

func TestPipeline_MapReduceChunkFailure(t *testing.T) {
	longText := strings.Repeat("Sentence about the topic. ", 200)
	generator := &stubGenerator{
		completeErr: fmt.Errorf("conn: %w", interfaces.ErrBackendUnreachable),
	}
	pipeline := newTestPipeline(&stubExtractor{text: longText}, generator, 200)

	stream := pipeline.Summarize(context.Background(), interfaces.URLSource("http://example.com"), interfaces.SummaryOptions{})
	fragments, err := drain(stream)

	assert.Empty(t, fragments)

	var pipeErr *interfaces.PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, interfaces.StageGenerate, pipeErr.Stage)
	assert.ErrorIs(t, err, interfaces.ErrBackendUnreachable)
	assert.Equal(t, int32(0), generator.generateCalls.Load())
}

func TestPipeline_ContextCancellation(t *testing.T) {
	generator := &stubGenerator{fragments: []string{"one", "two", "three"}}
	pipeline := newTestPipeline(&stubExtractor{text: "Document text."}, generator, 3000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream := pipeline.Summarize(ctx, interfaces.URLSource("http://example.com"), interfaces.SummaryOptions{})
	for range stream.Fragments() {
	}
	// stream terminates rather than hanging on a cancelled context
}

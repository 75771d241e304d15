package assignmentgen

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeCompleter struct {
	request  openai.ChatCompletionRequest
	response openai.ChatCompletionResponse
	err      error
}

func (f *fakeCompleter) CreateChatCompletion(
	ctx context.Context,
	request openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	f.request = request
	return f.response, f.err
}

func TestGenerate(t *testing.T) {
	fake := &fakeCompleter{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "  Photosynthesis essay.\n"}},
			},
		},
	}
	g := New("", "", time.Second, WithCompleter(fake))

	assert.Equal(t, "Photosynthesis essay.", g.Generate(context.Background(), "Photosynthesis"))
	assert.Equal(t, openai.GPT3Dot5Turbo, fake.request.Model)
	assert.Equal(t, 500, fake.request.MaxTokens)
	assert.InDelta(t, 0.7, fake.request.Temperature, 1e-6)
	require.Len(t, fake.request.Messages, 2)
	assert.Equal(t, "You are a helpful assistant who writes detailed assignments.", fake.request.Messages[0].Content)
	assert.Equal(t, "Write a detailed assignment on the topic: Photosynthesis.", fake.request.Messages[1].Content)
}

func TestGenerateFailuresBecomePlaceholder(t *testing.T) {
	tests := []struct {
		name string
		g    *Generator
		want string
	}{
		{
			name: "no api key",
			g:    New("", "", time.Second),
			want: "Error generating assignment: OpenAI API key is not configured",
		},
		{
			name: "api error",
			g:    New("", "", time.Second, WithCompleter(&fakeCompleter{err: errors.New("quota exceeded")})),
			want: "Error generating assignment: quota exceeded",
		},
		{
			name: "no choices",
			g:    New("", "", time.Second, WithCompleter(&fakeCompleter{})),
			want: "Error generating assignment: no completion choices returned",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.g.Generate(context.Background(), "topic"))
		})
	}
}

func TestGenerateRespectsCancelledContext(t *testing.T) {
	g := New("", "", time.Second, WithCompleter(&fakeCompleter{}), WithRateLimit(rate.Limit(0.001), 1))
	ctx := context.Background()

	g.Generate(ctx, "first")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Contains(t, g.Generate(cancelled, "second"), "Error generating assignment: rate limiter")
}

func TestBuildDocx(t *testing.T) {
	data, err := BuildDocx("Rivers & <Lakes>", "line one\nline two")
	require.NoError(t, err)

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := map[string]string{}
	for _, f := range archive.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(content)
	}

	require.Contains(t, files, "[Content_Types].xml")
	require.Contains(t, files, "_rels/.rels")
	require.Contains(t, files, "word/document.xml")
	document := files["word/document.xml"]
	assert.Contains(t, document, `<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t xml:space="preserve">Rivers &amp; &lt;Lakes&gt;</w:t></w:r></w:p>`)
	assert.Contains(t, files["[Content_Types].xml"], `PartName="/word/styles.xml"`)
	assert.Contains(t, files["word/_rels/document.xml.rels"], `Target="styles.xml"`)
	require.Contains(t, files, "word/styles.xml")
	assert.Contains(t, files["word/styles.xml"], `w:styleId="Title"`)
	assert.NotContains(t, files["word/document.xml"], `<w:pStyle w:val="Normal"/>`)
	assert.Contains(t, document, ">line one<")
	assert.Contains(t, document, ">line two<")
	assert.Equal(t, "Rivers_assignment.docx", Filename("Rivers"))
}

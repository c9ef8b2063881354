package markup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProber(t *testing.T) *Prober {
	t.Helper()
	p, err := NewProber()
	require.NoError(t, err)
	return p
}

func TestProbe(t *testing.T) {
	p := newProber(t)
	tests := []struct {
		name       string
		src        string
		structured bool
		tags       map[string]int
	}{
		{name: "empty", src: "   ", structured: false},
		{name: "plain text", src: "Linha 1\n\nLinha 2", structured: false},
		{name: "paragraphs", src: "<p>a</p><p><b>b</b></p>", structured: true, tags: map[string]int{"p": 2, "b": 1}},
		{name: "void elements", src: "a<br>b", structured: true, tags: map[string]int{"br": 1}},
		{name: "uppercase tags", src: "<P>x</P>", structured: true, tags: map[string]int{"p": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := p.Probe(context.Background(), []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.structured, report.Structured())
			for tag, n := range tt.tags {
				assert.Equal(t, n, report.Tags[tag], tag)
			}
		})
	}
}

func TestProbe_RawTextElements(t *testing.T) {
	report, err := newProber(t).Probe(context.Background(), []byte(`<style>p{color:red}</style><script>x()</script><p>t</p>`))
	require.NoError(t, err)
	assert.Equal(t, 2, report.RawText)
	assert.Equal(t, 1, report.Tags["p"])
}

func TestProber_Reusable(t *testing.T) {
	p := newProber(t)
	for i := 0; i < 3; i++ {
		report, err := p.Probe(context.Background(), []byte("<em>x</em>"))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Elements)
	}
}

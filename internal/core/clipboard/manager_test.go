package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prose/internal/document"
)

type fakeSystem struct {
	text     string
	writeErr error
}

func (f *fakeSystem) ReadAll() (string, error) { return f.text, nil }

func (f *fakeSystem) WriteAll(text string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.text = text
	return nil
}

func sample() document.Document {
	return document.New(
		document.NewParagraph(document.NewText("plain "), document.NewBold(document.NewText("bold"))),
		document.NewParagraph(document.NewText("second")),
	)
}

func TestCopy_KeepsMarkupInternally(t *testing.T) {
	sys := &fakeSystem{}
	m := NewManager(sys)
	assert.True(t, m.Empty())

	ok, err := m.Copy(sample(), document.Point{Block: 0, Offset: 6}, document.Point{Block: 1, Offset: 3})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bold\nsec", sys.text)

	p := m.Payload()
	assert.Equal(t, "<p><strong>bold</strong></p><p>sec</p>", p.HTML)
	assert.Equal(t, "bold\nsec", p.Text)
	assert.False(t, m.Empty())
}

func TestPayload_ExternalTextWins(t *testing.T) {
	sys := &fakeSystem{}
	m := NewManager(sys)
	_, err := m.Copy(sample(), document.Point{Block: 0, Offset: 0}, document.Point{Block: 0, Offset: 5})
	require.NoError(t, err)

	sys.text = "from another app"
	p := m.Payload()
	assert.Empty(t, p.HTML)
	assert.Equal(t, "from another app", p.Text)
}

func TestCopy_EmptyRange(t *testing.T) {
	m := NewManager(nil)
	ok, err := m.Copy(sample(), document.Point{Block: 1, Offset: 2}, document.Point{Block: 1, Offset: 2})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, m.Empty())
}

func TestCopy_SystemWriteFailureKeepsInternalCopy(t *testing.T) {
	m := NewManager(&fakeSystem{writeErr: errors.New("no display")})
	ok, err := m.Copy(sample(), document.Point{Block: 1, Offset: 0}, document.Point{Block: 1, Offset: 6})
	assert.True(t, ok)
	assert.Error(t, err)
	assert.Equal(t, "<p>second</p>", m.Payload().HTML)
}

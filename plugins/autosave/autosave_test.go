package autosave

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prose/internal/event"
	"github.com/bethropolis/prose/internal/plugin"
)

type fakeAPI struct {
	plugin.EditorAPI

	mu       sync.Mutex
	modified bool
	path     string
	saves    int
	handlers map[event.Type][]event.Handler
}

func (f *fakeAPI) SubscribeEvent(t event.Type, h event.Handler) {
	if f.handlers == nil {
		f.handlers = map[event.Type][]event.Handler{}
	}
	f.handlers[t] = append(f.handlers[t], h)
}

// Post runs fn right away; the lock stands in for the owner goroutine.
func (f *fakeAPI) Post(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn()
}

func (f *fakeAPI) IsModified() bool    { return f.modified }
func (f *fakeAPI) GetFilePath() string { return f.path }
func (f *fakeAPI) SaveDocument() error {
	f.saves++
	f.modified = false
	return nil
}

func (f *fakeAPI) modify() {
	f.mu.Lock()
	f.modified = true
	f.mu.Unlock()
	for _, h := range f.handlers[event.TypeDocumentModified] {
		h(event.Event{Type: event.TypeDocumentModified})
	}
}

func (f *fakeAPI) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func TestAutoSave_SavesAfterModification(t *testing.T) {
	api := &fakeAPI{path: "post.html"}
	p := New(30 * time.Millisecond)
	require.NoError(t, p.Initialize(api))
	defer p.Shutdown()

	api.modify()
	assert.Eventually(t, func() bool { return api.saveCount() >= 1 }, 2*time.Second, 5*time.Millisecond)

	// Unmodified documents are not saved again.
	n := api.saveCount()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, n, api.saveCount())
}

func TestAutoSave_SkipsUnnamedDocument(t *testing.T) {
	api := &fakeAPI{}
	p := New(10 * time.Millisecond)
	require.NoError(t, p.Initialize(api))

	api.modify()
	time.Sleep(60 * time.Millisecond)
	require.NoError(t, p.Shutdown())
	assert.Zero(t, api.saveCount())
}

func TestAutoSave_Disabled(t *testing.T) {
	api := &fakeAPI{path: "post.html"}
	p := New(0)
	require.NoError(t, p.Initialize(api))
	assert.Empty(t, api.handlers)
	assert.NoError(t, p.Shutdown())
}

package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type fakePlugin struct {
	name        string
	initErr     error
	shutdownErr error
	log         *[]string
	api         EditorAPI
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) Initialize(api EditorAPI) error {
	*p.log = append(*p.log, "init "+p.name)
	p.api = api
	return p.initErr
}

func (p *fakePlugin) Shutdown() error {
	*p.log = append(*p.log, "stop "+p.name)
	return p.shutdownErr
}

func TestRegister(t *testing.T) {
	var log []string
	m := NewManager()

	require.NoError(t, m.Register(&fakePlugin{name: "a", log: &log}))
	assert.Error(t, m.Register(&fakePlugin{name: "a", log: &log}))
	assert.Error(t, m.Register(&fakePlugin{name: "", log: &log}))

	p, ok := m.GetPlugin("a")
	require.True(t, ok)
	assert.Equal(t, "a", p.Name())
	_, ok = m.GetPlugin("missing")
	assert.False(t, ok)
}

func TestLifecycle_OrderAndErrors(t *testing.T) {
	var log []string
	m := NewManager()
	boom := errors.New("boom")
	for _, p := range []*fakePlugin{
		{name: "first", log: &log},
		{name: "broken", log: &log, initErr: boom, shutdownErr: boom},
		{name: "last", log: &log},
	} {
		require.NoError(t, m.Register(p))
	}
	assert.Equal(t, []string{"first", "broken", "last"}, m.Names())

	err := m.InitializePlugins(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, multierr.Errors(err), 1)

	err = m.ShutdownPlugins()
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{
		"init first", "init broken", "init last",
		"stop last", "stop broken", "stop first",
	}, log)
}

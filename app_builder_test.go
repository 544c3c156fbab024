package toonscroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockModule struct {
	installed bool
	order     *[]string
	name      string
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	if len(builder.modules) != 1 {
		t.Errorf("Expected modules to contain 1 module, got %v", len(builder.modules))
	}
}

func TestAppBuilder_Build_WithMultipleModules(t *testing.T) {
	var order []string
	module1 := &MockModule{order: &order, name: "first"}
	module2 := &MockModule{order: &order, name: "second"}

	NewAppBuilder().
		UseModule(module1).
		UseModule(module2).
		Build()

	assert.True(t, module1.installed)
	assert.True(t, module2.installed)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestAppBuilder_Build_FlushesInstallSpawns(t *testing.T) {
	type marker struct{ N int }
	app := NewAppBuilder().
		UseModule(moduleFunc(func(app *App, cmd *Commands) {
			cmd.AddEntity(marker{N: 7})
		})).
		Build()

	assert.Equal(t, 1, MakeQuery1[marker](app.Commands()).Count())
}

func TestAppBuilder_UseRenderer_Twice(t *testing.T) {
	builder := NewAppBuilder().
		UseModule(LoggingModule{Logger: NewLoggerTo(discard{}, discard{}, "", false)}).
		UseRenderer(RendererHeadless, &HeadlessRenderer{}).
		UseRenderer(RendererWGPU, &HeadlessRenderer{})

	require.PanicsWithValue(t, "Multiple renderers installed: headless and wgpu", func() {
		builder.Build()
	})
}

// moduleFunc adapts a plain function to Module.
type moduleFunc func(app *App, cmd *Commands)

func (f moduleFunc) Install(app *App, cmd *Commands) { f(app, cmd) }

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

package toonscroll

import (
	"fmt"
	"reflect"
)

// RendererTag marks that a renderer has been installed into the App.
type RendererTag struct {
	Name RendererName
}

// ensureSingleRenderer panics when a second renderer is installed. Installing
// the same renderer name twice is allowed.
func ensureSingleRenderer(app *App, name RendererName) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	t := reflect.TypeFor[RendererTag]()
	if res, ok := app.resources[t]; ok {
		tag := res.(*RendererTag)
		if tag.Name != name {
			app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name))
		}
		return
	}
	app.addResources(&RendererTag{Name: name})
}

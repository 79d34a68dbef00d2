package bundle

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/phanxgames/electric"
	"github.com/phanxgames/electric/script"
)

// Mounted is a bundle installed on a runtime.
type Mounted struct {
	// Objects holds the scene objects by element id.
	Objects map[string]electric.SceneObject
	// Engine runs the bundle script. Nil when the bundle has none.
	Engine *script.Engine
}

// Close releases the script engine.
func (m *Mounted) Close() {
	if m.Engine != nil {
		m.Engine.Close()
	}
}

// Mount installs the bundle on rt: the configuration is applied, the script
// is loaded, the scene is built with button actions resolved to script
// functions, and the script becomes the frame hook. A script may define
// on_load(), called once the scene objects are bound.
func (b *Bundle) Mount(rt *electric.Runtime) (*Mounted, error) {
	log := rt.Logger().Named("bundle")
	if len(b.Config) > 0 {
		cfg, err := electric.ParseConfig(b.Config)
		if err != nil {
			return nil, fmt.Errorf("mount %s: %w", EntryConfig, err)
		}
		rt.Configure(cfg)
	}

	m := &Mounted{Objects: make(map[string]electric.SceneObject)}
	if b.Script != "" {
		m.Engine = script.NewEngine(rt)
		if err := m.Engine.LoadString(EntryScript, b.Script); err != nil {
			m.Engine.Close()
			return nil, fmt.Errorf("mount: %w", err)
		}
	}

	if len(b.Scene) > 0 {
		sb := electric.NewSceneBuilder(rt)
		if m.Engine != nil {
			sb.ResolveActions(m.Engine.Action)
		}
		objs, err := sb.Build(b.Scene)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("mount %s: %w", EntryScene, err)
		}
		m.Objects = objs
	}

	if m.Engine != nil {
		m.Engine.BindAll(m.Objects)
		if onLoad, ok := m.Engine.Action("on_load"); ok {
			onLoad()
		}
		m.Engine.Install()
	}
	log.Info("bundle mounted",
		zap.Int("objects", len(m.Objects)),
		zap.Bool("script", m.Engine != nil),
		zap.Int("extras", len(b.Extras)))
	return m, nil
}

// Asset returns an extra file by archive path. It satisfies the source
// hook of the host image loader.
func (b *Bundle) Asset(name string) ([]byte, error) {
	data, ok := b.Extras[name]
	if !ok {
		return nil, fmt.Errorf("bundle asset %s: %w", name, os.ErrNotExist)
	}
	return data, nil
}

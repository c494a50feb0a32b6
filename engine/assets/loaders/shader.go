package loaders

import (
	"fmt"
	"os"
)

// ShaderPair is one compiled shader program: WGSL source with both the
// vertex and fragment entry points, as produced by the mage shader task.
type ShaderPair struct {
	Name          string
	Source        []byte
	VertexEntry   string
	FragmentEntry string
}

type ShaderLoader struct{}

// Load reads compiled shader source from disk. A missing or unreadable
// file is a configuration error surfaced to the caller; the renderer
// cannot start without its shaders.
func (sl *ShaderLoader) Load(name, path string) (*ShaderPair, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader %q from %s: %w", name, path, err)
	}
	return &ShaderPair{
		Name:          name,
		Source:        source,
		VertexEntry:   "vsMain",
		FragmentEntry: "psMain",
	}, nil
}

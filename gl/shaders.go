package gl

import (
	"embed"
	"fmt"
	"path"

	"github.com/go-gl/gl/v4.1-core/gl"
)

//go:embed shaders/*.vert shaders/*.frag
var shaderFS embed.FS

// A shader pipeline stage.
type Stage uint32

const (
	VertexStage   Stage = gl.VERTEX_SHADER
	FragmentStage Stage = gl.FRAGMENT_SHADER
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return fmt.Sprintf("stage(0x%x)", uint32(s))
	}
}

// The source of a single shader stage.
type ShaderSource struct {
	Path   string
	Stage  Stage
	Source string
}

// Load an embedded shader. The stage is selected by the file extension
// (.vert or .frag).
func LoadShaderSource(name string) (ShaderSource, error) {
	var stage Stage
	switch path.Ext(name) {
	case ".vert":
		stage = VertexStage
	case ".frag":
		stage = FragmentStage
	default:
		return ShaderSource{}, fmt.Errorf("shader %s: unsupported stage extension %q", name, path.Ext(name))
	}

	data, err := shaderFS.ReadFile(path.Join("shaders", name))
	if err != nil {
		return ShaderSource{}, fmt.Errorf("shader %s: %s", name, err)
	}

	return ShaderSource{
		Path:   path.Join("shaders", name),
		Stage:  stage,
		Source: string(data),
	}, nil
}

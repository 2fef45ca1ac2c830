package gl

import (
	"strings"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/achilleasa/vao/voxel"
)

func TestLoadShaderSource(t *testing.T) {
	type spec struct {
		name   string
		stage  Stage
		blocks []string
	}

	specs := []spec{
		{"voxel.vert", VertexStage, []string{"VoxelBlock"}},
		{"voxel.frag", FragmentStage, []string{"VoxelBlock", "masks", "texels_per_entry"}},
		{"geompass.vert", VertexStage, []string{"MatricesBlock"}},
		{"geompass.frag", FragmentStage, []string{"material_id"}},
		{"lightpass.vert", VertexStage, []string{"gl_VertexID"}},
		{"lightpass.frag", FragmentStage, []string{"MaterialsBlock", "LightsBlock", "RaysBlock", "OcclusionBlock", "slice_sampler0", "slice_sampler1", "show_occlusion"}},
	}

	for specIndex, s := range specs {
		src, err := LoadShaderSource(s.name)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", specIndex, err)
		}
		if src.Stage != s.stage {
			t.Fatalf("[spec %d] expected stage %s; got %s", specIndex, s.stage, src.Stage)
		}
		if src.Path != "shaders/"+s.name {
			t.Fatalf("[spec %d] expected path shaders/%s; got %s", specIndex, s.name, src.Path)
		}
		if !strings.HasPrefix(src.Source, "#version 410 core") {
			t.Fatalf("[spec %d] expected source to start with the version directive", specIndex)
		}
		for _, block := range s.blocks {
			if !strings.Contains(src.Source, block) {
				t.Fatalf("[spec %d] expected source to reference %q", specIndex, block)
			}
		}
	}
}

func TestLoadShaderSourceErrors(t *testing.T) {
	if _, err := LoadShaderSource("voxel.geom"); err == nil || !strings.Contains(err.Error(), "unsupported stage") {
		t.Fatalf("expected an unsupported stage error; got %v", err)
	}
	if _, err := LoadShaderSource("missing.frag"); err == nil || !strings.HasPrefix(err.Error(), "shader missing.frag:") {
		t.Fatalf("expected a missing file error; got %v", err)
	}
}

func TestErrorMessages(t *testing.T) {
	type spec struct {
		err error
		exp string
	}

	specs := []spec{
		{&ResourceCreationError{Target: "framebuffer", Status: gl.FRAMEBUFFER_UNSUPPORTED}, "couldn't create the framebuffer (unsupported)"},
		{&ResourceCreationError{Target: "framebuffer", Status: gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT}, "couldn't create the framebuffer (incomplete attachment)"},
		{&ResourceCreationError{Target: "framebuffer", Status: 0x1234}, "couldn't create the framebuffer (status 0x1234)"},
		{&CompileError{Path: "shaders/voxel.frag", Stage: FragmentStage, Log: "0:12: syntax error"}, "shaders/voxel.frag: 0:12: syntax error"},
		{&LinkError{Program: "voxel", Log: "missing main"}, "link error: missing main"},
	}

	for specIndex, s := range specs {
		if got := s.err.Error(); got != s.exp {
			t.Fatalf("[spec %d] expected error %q; got %q", specIndex, s.exp, got)
		}
	}
}

func TestStateCapabilities(t *testing.T) {
	type spec struct {
		state    voxel.RenderState
		logicOp  bool
		depth    bool
		cull     bool
		expLogic uint32
	}

	specs := []spec{
		{voxel.XorState, true, false, false, gl.XOR},
		{voxel.DefaultState, false, true, false, gl.COPY},
		{voxel.RenderState{CullFace: voxel.CullBack}, false, false, true, gl.COPY},
	}

	for specIndex, s := range specs {
		caps, logicOp := stateCapabilities(s.state)
		if logicOp != s.expLogic {
			t.Fatalf("[spec %d] expected logic op 0x%x; got 0x%x", specIndex, s.expLogic, logicOp)
		}

		exp := map[uint32]bool{
			gl.COLOR_LOGIC_OP: s.logicOp,
			gl.DEPTH_TEST:     s.depth,
			gl.CULL_FACE:      s.cull,
		}
		if len(caps) != len(exp) {
			t.Fatalf("[spec %d] expected %d capabilities; got %d", specIndex, len(exp), len(caps))
		}
		for _, c := range caps {
			if c.enabled != exp[c.cap] {
				t.Fatalf("[spec %d] expected capability 0x%x enabled=%t; got %t", specIndex, c.cap, exp[c.cap], c.enabled)
			}
		}
	}
}

func TestTexelsPerEntry(t *testing.T) {
	specs := [][2]int{
		{1, 1},
		{4, 1},
		{5, 2},
		{8, 2},
	}

	for specIndex, s := range specs {
		if got := TexelsPerEntry(s[0]); got != s[1] {
			t.Fatalf("[spec %d] expected %d texels for %d channels; got %d", specIndex, s[1], s[0], got)
		}
	}
}

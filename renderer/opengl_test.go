package renderer

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/achilleasa/vao/asset/mesh"
	"github.com/achilleasa/vao/scene"
)

func TestHandleKey(t *testing.T) {
	type spec struct {
		key     glfw.Key
		expQuit bool
		check   func(*scene.Scene) bool
	}

	specs := []spec{
		{glfw.KeyEscape, true, nil},
		{glfw.KeyQ, true, nil},
		{glfw.KeyL, false, func(sc *scene.Scene) bool { return sc.RotateLight && !sc.RotateObject }},
		{glfw.KeyO, false, func(sc *scene.Scene) bool { return sc.RotateObject && !sc.RotateLight }},
		{glfw.KeyA, false, func(sc *scene.Scene) bool { return sc.AmbientOnly }},
		{glfw.KeyS, false, func(sc *scene.Scene) bool { return sc.ShowOcclusion }},
		{glfw.KeyX, false, func(sc *scene.Scene) bool {
			return !sc.RotateLight && !sc.RotateObject && !sc.AmbientOnly && !sc.ShowOcclusion
		}},
	}

	for specIndex, s := range specs {
		sc, err := scene.New(mesh.Cube(1), 16, 32)
		if err != nil {
			t.Fatal(err)
		}

		if quit := handleKey(sc, s.key); quit != s.expQuit {
			t.Fatalf("[spec %d] expected quit to be %t; got %t", specIndex, s.expQuit, quit)
		}
		if s.check != nil && !s.check(sc) {
			t.Fatalf("[spec %d] unexpected scene state after key press", specIndex)
		}
	}

	// Toggles flip back on a second press
	sc, _ := scene.New(mesh.Cube(1), 16, 32)
	handleKey(sc, glfw.KeyA)
	handleKey(sc, glfw.KeyA)
	if sc.AmbientOnly {
		t.Fatal("expected a second press to disable ambient-only mode")
	}
}

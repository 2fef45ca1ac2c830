package gl

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/achilleasa/vao/types"
)

// A linked shader program.
type Program struct {
	name   string
	handle uint32

	uniforms map[string]int32
}

// Compile and link a program from a set of embedded shader files.
func LoadProgram(name string, files ...string) (*Program, error) {
	sources := make([]ShaderSource, 0, len(files))
	for _, file := range files {
		src, err := LoadShaderSource(file)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return NewProgram(name, sources...)
}

// Compile and link a program.
func NewProgram(name string, sources ...ShaderSource) (*Program, error) {
	shaders := make([]uint32, 0, len(sources))
	defer func() {
		for _, shader := range shaders {
			gl.DeleteShader(shader)
		}
	}()

	for _, src := range sources {
		shader, err := compileShader(src)
		if err != nil {
			return nil, err
		}
		shaders = append(shaders, shader)
	}

	handle := gl.CreateProgram()
	for _, shader := range shaders {
		gl.AttachShader(handle, shader)
	}
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(handle, logLen, nil, gl.Str(log))
		gl.DeleteProgram(handle)
		return nil, &LinkError{Program: name, Log: strings.TrimRight(log, "\x00")}
	}

	return &Program{
		name:     name,
		handle:   handle,
		uniforms: make(map[string]int32),
	}, nil
}

func compileShader(src ShaderSource) (uint32, error) {
	shader := gl.CreateShader(uint32(src.Stage))
	csources, free := gl.Strs(src.Source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &CompileError{Path: src.Path, Stage: src.Stage, Log: strings.TrimRight(log, "\x00")}
	}

	return shader, nil
}

// Get the program name.
func (p *Program) Name() string {
	return p.name
}

// Make the program current.
func (p *Program) Use() {
	gl.UseProgram(p.handle)
}

// Free the program.
func (p *Program) Release() {
	if p.handle != 0 {
		gl.DeleteProgram(p.handle)
		p.handle = 0
	}
}

func (p *Program) location(name string) int32 {
	if loc, exists := p.uniforms[name]; exists {
		return loc
	}
	loc := gl.GetUniformLocation(p.handle, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// Set an int (or bool/sampler) uniform. The program must be current.
func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.location(name), v)
}

// Set a float uniform. The program must be current.
func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.location(name), v)
}

// Set a vec3 uniform. The program must be current.
func (p *Program) SetVec3(name string, v types.Vec3) {
	gl.Uniform3fv(p.location(name), 1, &v[0])
}

// Set a mat4 uniform. The program must be current.
func (p *Program) SetMat4(name string, m types.Mat4) {
	gl.UniformMatrix4fv(p.location(name), 1, false, &m[0])
}

// Bind a texture to a texture unit and point a sampler uniform to it.
func (p *Program) SetTexture(name string, unit uint32, target uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(target, texture)
	p.SetInt(name, int32(unit))
}

// Attach a uniform block to a binding point and bind a buffer to it.
func (p *Program) SetUniformBuffer(blockName string, binding uint32, buf *UniformBuffer) {
	index := gl.GetUniformBlockIndex(p.handle, gl.Str(blockName+"\x00"))
	if index == gl.INVALID_INDEX {
		return
	}
	gl.UniformBlockBinding(p.handle, index, binding)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, buf.handle)
}

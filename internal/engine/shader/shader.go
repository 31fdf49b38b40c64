// Package shader compiles and links the GLSL programs the renderer uses.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/animseq/internal/logger"
)

// Source is a vertex/fragment pair. Sources do not need a trailing NUL.
type Source struct {
	Name     string
	Vertex   string
	Fragment string
}

// Program is a linked GL program with its uniform locations cached.
type Program struct {
	ID       uint32
	name     string
	uniforms map[string]int32
}

// Compile builds and links src.
func Compile(src Source) (*Program, error) {
	vert, err := compileStage(src.Vertex, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s vertex shader: %w", src.Name, err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileStage(src.Fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s fragment shader: %w", src.Name, err)
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(id, logLen, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("%s link: %s", src.Name, strings.TrimRight(log, "\x00"))
	}

	logger.Debug("shader program linked", zap.String("name", src.Name), zap.Uint32("program", id))
	return &Program{ID: id, name: src.Name, uniforms: make(map[string]int32)}, nil
}

func compileStage(source string, stage uint32) (uint32, error) {
	sh := gl.CreateShader(stage)
	csource, free := gl.Strs(terminate(source))
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("compile: %s", strings.TrimRight(log, "\x00"))
	}
	return sh, nil
}

// terminate appends the NUL the GL string helpers expect.
func terminate(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// Use binds the program.
func (p *Program) Use() { gl.UseProgram(p.ID) }

// Uniform returns the location of name, or -1 when the uniform is inactive.
// Inactive uniforms are logged once.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(terminate(name)))
	if loc < 0 {
		logger.Warn("uniform not found", zap.String("program", p.name), zap.String("uniform", name))
	}
	p.uniforms[name] = loc
	return loc
}

// Delete frees the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

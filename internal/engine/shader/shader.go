// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Shader build errors. The returned error wraps one of these and carries the
// driver's info log.
var (
	ErrCompile = errors.New("shader compile failed")
	ErrLink    = errors.New("program link failed")
)

// Attribute binds a vertex input name to a fixed location before linking.
type Attribute struct {
	Name     string
	Location uint32
}

// ProgramSource is the immutable description of a program. It is safe to
// compile the same source again after a context loss.
type ProgramSource struct {
	Vertex     string
	Fragment   string
	Attributes []Attribute
}

// Attribute locations and uniform names used by ModelProgram.
const (
	PositionLocation = 0
	NormalLocation   = 1
	MVPUniform       = "u_mvpMatrix"
)

// ModelProgram draws translucent, flat-lit model geometry.
var ModelProgram = ProgramSource{
	Vertex: `#version 410 core
in vec3 in_pos;
in vec3 in_norm;

uniform mat4 u_mvpMatrix;

out vec3 normal;

void main() {
    normal = in_norm;
    gl_Position = u_mvpMatrix * vec4(in_pos, 1.0);
}
`,
	Fragment: `#version 410 core
in vec3 normal;

out vec4 fragColor;

void main() {
    const vec3 lightDir = vec3(0.0, 1.0, 0.0);
    const vec3 color = vec3(0.5, 0.9, 1.0);
    const float colorIntensity = 0.3;
    const float alpha = 0.5;

    // Keep every surface at least dimly lit.
    float attenuation = max(dot(-lightDir, normal), 0.4);

    fragColor = vec4(color * colorIntensity * attenuation, alpha);
}
`,
	Attributes: []Attribute{
		{Name: "in_pos", Location: PositionLocation},
		{Name: "in_norm", Location: NormalLocation},
	},
}

// Compile builds the program described by s.
func (s ProgramSource) Compile() (uint32, error) {
	return CompileProgram(s.Vertex, s.Fragment, s.Attributes...)
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Attribute locations are bound before linking.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string, attribs ...Attribute) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	for _, a := range attribs {
		gl.BindAttribLocation(program, a.Location, gl.Str(a.Name+"\x00"))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) })
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", ErrLink, log)
	}

	gl.DetachShader(program, vertShader)
	gl.DetachShader(program, fragShader)

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) })
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s shader: %s", ErrCompile, name, log)
	}

	return shader, nil
}

// infoLog reads a driver log of the given length, which includes the
// terminating NUL.
func infoLog(length int32, read func(*uint8)) string {
	if length <= 0 {
		return "(no log)"
	}
	buf := make([]byte, length)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

// GetUniform returns the uniform location for the given name.
// Returns -1 if the uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// compileProgram compiles vertex and fragment shaders and links them into a program.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
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
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

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
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// uniforms resolves uniform locations once per program.
type uniforms struct {
	program uint32
	locs    map[string]int32
}

func newUniforms(program uint32, names ...string) uniforms {
	u := uniforms{program: program, locs: make(map[string]int32, len(names))}
	for _, n := range names {
		u.locs[n] = gl.GetUniformLocation(program, gl.Str(n+"\x00"))
	}
	return u
}

// loc returns -1 for unknown or inactive uniforms, which GL ignores.
func (u uniforms) loc(name string) int32 {
	if l, ok := u.locs[name]; ok {
		return l
	}
	return -1
}

const leafVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uViewProj;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(uModel) * aNormal;
	vUV = aUV;
	gl_Position = uViewProj * world;
}
`

const leafFragmentShader = `
#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;

uniform vec3 uColor;
uniform int uHasTexture;
uniform sampler2D uTexture;
uniform vec3 uEmissive;
uniform float uEmissiveIntensity;
uniform float uRoughness;

uniform vec3 uLightDir;
uniform vec3 uAmbient;
uniform vec3 uDiffuse;
uniform vec3 uEye;

out vec4 FragColor;

void main() {
	vec3 base = uColor;
	if (uHasTexture == 1) {
		// Images are stored top row first; v=1 is the top edge.
		vec4 tex = texture(uTexture, vec2(vUV.x, 1.0 - vUV.y));
		base *= mix(vec3(1.0), tex.rgb, tex.a);
	}

	vec3 n = normalize(vNormal);
	vec3 v = normalize(uEye - vWorldPos);
	if (dot(n, v) < 0.0) {
		n = -n;
	}
	vec3 l = normalize(-uLightDir);
	float diff = max(dot(n, l), 0.0);

	float shininess = mix(128.0, 4.0, clamp(uRoughness, 0.0, 1.0));
	vec3 h = normalize(l + v);
	float spec = pow(max(dot(n, h), 0.0), shininess) * (1.0 - uRoughness) * 0.25;

	vec3 color = base * (uAmbient + uDiffuse * diff) + vec3(spec);
	color += uEmissive * uEmissiveIntensity;
	FragColor = vec4(color, 1.0);
}
`

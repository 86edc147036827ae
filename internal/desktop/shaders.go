package desktop

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// maxPointLights must match the array size in meshFragSrc.
const maxPointLights = 32

// Mesh vertex shader: interleaved position + normal, world-space outputs for lighting.
const meshVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vWorldPos;
out vec3 vNormal;
out float vDepth;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vec4 view = uView * world;
    vWorldPos = world.xyz;
    vNormal = mat3(transpose(inverse(uModel))) * aNormal;
    vDepth = -view.z;
    gl_Position = uProj * view;
}
` + "\x00"

// Mesh fragment shader: Lambert with ambient, one directional light and ranged
// point lights, emissive term and exp2 fog.
const meshFragSrc = `#version 410 core

uniform vec3 uColor;
uniform vec3 uEmissive;
uniform float uEmissiveIntensity;
uniform float uOpacity;
uniform int uUnlit;

uniform vec3 uAmbient;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform int uPointCount;
uniform vec3 uPointPos[32];
uniform vec3 uPointColor[32];
uniform float uPointRange[32];

uniform vec3 uFogColor;
uniform float uFogDensity;

in vec3 vWorldPos;
in vec3 vNormal;
in float vDepth;
out vec4 FragColor;

void main() {
    vec3 col = uColor;
    if (uUnlit == 0) {
        vec3 n = normalize(vNormal);
        if (!gl_FrontFacing) n = -n;
        vec3 light = uAmbient + uSunColor * max(dot(n, uSunDir), 0.0);
        for (int i = 0; i < uPointCount; i++) {
            vec3 l = uPointPos[i] - vWorldPos;
            float d = length(l);
            float atten = 1.0;
            if (uPointRange[i] > 0.0) {
                atten = clamp(1.0 - d / uPointRange[i], 0.0, 1.0);
                atten *= atten;
            }
            light += uPointColor[i] * max(dot(n, l / max(d, 1e-4)), 0.0) * atten;
        }
        col = uColor * light + uEmissive * uEmissiveIntensity;
    }
    float f = 1.0 - exp(-uFogDensity * uFogDensity * vDepth * vDepth);
    col = mix(col, uFogColor, clamp(f, 0.0, 1.0));
    FragColor = vec4(col, uOpacity);
}
` + "\x00"

// Sprite vertex shader: 3D point sprites sized by distance.
// Each sprite: x, y, z, size, r, g, b, a.
const spriteVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in float aSize;
layout(location = 2) in vec4 aColor;

uniform mat4 uView;
uniform mat4 uProj;
uniform float uPointScale;

out vec4 vColor;

void main() {
    vec4 view = uView * vec4(aPos, 1.0);
    gl_Position = uProj * view;
    gl_PointSize = max(1.0, aSize * uPointScale / max(-view.z, 0.01));
    vColor = aColor;
}
` + "\x00"

// Sprite fragment shader: round, softly fading dot.
const spriteFragSrc = `#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
    float dist = length(gl_PointCoord - vec2(0.5)) * 2.0;
    if (dist > 1.0) discard;
    float falloff = 1.0 - dist * dist;
    FragColor = vec4(vColor.rgb, vColor.a * falloff);
}
` + "\x00"

// Overlay vertex shader: unit quad stretched over the viewport.
const overlayVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos;

out vec2 vUV;

void main() {
    vUV = aPos;
    gl_Position = vec4(aPos * 2.0 - 1.0, 0.0, 1.0);
}
` + "\x00"

// Overlay fragment shader: radial depth tint under the vertical transition gradient.
const overlayFragSrc = `#version 410 core

uniform vec4 uTop;
uniform vec4 uBottom;
uniform float uFlash;
uniform vec4 uTint;

in vec2 vUV;
out vec4 FragColor;

void main() {
    float dist = clamp(length(vUV - vec2(0.5)) * 1.4142, 0.0, 1.0);
    vec4 tint = vec4(uTint.rgb, uTint.a * dist);
    vec4 grad = mix(uBottom, uTop, vUV.y);
    grad.a *= uFlash;

    float a = grad.a + tint.a * (1.0 - grad.a);
    if (a <= 0.0) discard;
    vec3 rgb = (grad.rgb * grad.a + tint.rgb * tint.a * (1.0 - grad.a)) / a;
    FragColor = vec4(rgb, a);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}

// uniforms looks up every name in prog. Names are given without the NUL terminator.
func uniforms(prog uint32, names ...string) map[string]int32 {
	out := make(map[string]int32, len(names))
	for _, n := range names {
		out[n] = gl.GetUniformLocation(prog, gl.Str(n+"\x00"))
	}
	return out
}

package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Lighting defaults for the lit shader.
var defaultAmbient = [4]float32{0.22, 0.24, 0.28, 1.0}
var defaultLightDir = [3]float32{0.5, 1, 0.5}

const defaultLightIntensity = float32(0.8)

var lit struct {
	shader rl.Shader
	loaded bool
}

// litShader returns the shared directional-light shader, loading it on first
// use (after the window/GL context exists).
func litShader() rl.Shader {
	if !lit.loaded {
		lit.shader = rl.LoadShaderFromMemory(litVS, litFS)
		lit.loaded = true
	}
	return lit.shader
}

func unloadLitShader() {
	if lit.loaded {
		rl.UnloadShader(lit.shader)
		lit.loaded = false
	}
}

// setLitUniforms sets viewPos, lightDir, ambient, and intensity once per frame.
func setLitUniforms(camPos rl.Vector3) {
	shader := litShader()
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := []float32{camPos.X, camPos.Y, camPos.Z}
	lightDir := []float32{defaultLightDir[0], defaultLightDir[1], defaultLightDir[2]}
	amb := []float32{defaultAmbient[0], defaultAmbient[1], defaultAmbient[2], defaultAmbient[3]}
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos, rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir, rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb, rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultLightIntensity}, rl.ShaderUniformFloat)
	}
}

// Simple directional light + ambient. Same vertex attributes as raylib
// meshes: vertexPosition, vertexTexCoord, vertexNormal.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform float lightIntensity;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  vec3 H = normalize(L + V);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightIntensity;
  float spec = pow(max(dot(N, H), 0.0), 32.0) * 0.25 * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  finalColor = vec4(amb + diffuse + vec3(spec), tint.a);
}
`
)

//go:build !tinygo && cgo

package clayaux

import (
	"fmt"
	"log"
	"math"
	"runtime"
	"time"
	"unsafe"

	"claymarch"
	"claymarch/claybuf"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// slotGPU mirrors the std430 Slot struct of the fragment shader. The
// matrix is column major as GLSL expects.
type slotGPU struct {
	invT   [16]float32
	color  [4]float32
	params [4]float32 // xyz shape parameter, w distance scale.
	meta   [4]int32   // x kind, y selected.
}

func ui(scene *claymarch.Scene, cfg UIConfig) error {
	var pk claybuf.Packer
	snap, err := scene.Pack(&pk)
	if err != nil {
		return fmt.Errorf("packing scene: %w", err)
	}
	diag := snap.Bounds.Diagonal()
	if diag <= 0 {
		diag = 2
	}
	target := snap.Bounds.Center()

	window, term, err := startGLFW(cfg.Width, cfg.Height)
	if err != nil {
		log.Fatal(err)
	}
	defer term()
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex: `#version 460
in vec2 aPos;
out vec2 vTexCoord;
void main() {
    vTexCoord = aPos * 0.5 + 0.5;
    gl_Position = vec4(aPos, 0.0, 1.0);
}
` + "\x00",
		Fragment: makeFragSource(),
	})
	if err != nil {
		return err
	}
	prog.Bind()
	// Define a quad covering the screen
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	vertices := []float32{
		-1.0, -1.0,
		1.0, -1.0,
		-1.0, 1.0,
		-1.0, 1.0,
		1.0, -1.0,
		1.0, 1.0,
	}
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)
	antialiasingUniform, err := prog.UniformLocation("uAA\x00")
	if err != nil {
		return err
	}
	camDistUniform, err := prog.UniformLocation("uCamDist\x00")
	if err != nil {
		return err
	}
	resUniform, err := prog.UniformLocation("uResolution\x00")
	if err != nil {
		return err
	}
	yawUniform, err := prog.UniformLocation("uYaw\x00")
	if err != nil {
		return err
	}
	pitchUniform, err := prog.UniformLocation("uPitch\x00")
	if err != nil {
		return err
	}
	targetUniform, err := prog.UniformLocation("uTarget\x00")
	if err != nil {
		return err
	}
	countUniform, err := prog.UniformLocation("uCount\x00")
	if err != nil {
		return err
	}
	ctrlCountUniform, err := prog.UniformLocation("uCtrlCount\x00")
	if err != nil {
		return err
	}
	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		return err
	}
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.Enable(gl.DEPTH_TEST)

	var slotSSBO, ctrlSSBO uint32
	upload := func(snap *claybuf.Snapshot) error {
		if slotSSBO != 0 {
			gl.DeleteBuffers(1, &slotSSBO)
			gl.DeleteBuffers(1, &ctrlSSBO)
		}
		slotSSBO = loadSSBO(packSlots(snap), 0, gl.STATIC_DRAW)
		ctrlSSBO = loadSSBO(packCtrl(snap), 1, gl.STATIC_DRAW)
		gl.Uniform1i(countUniform, int32(snap.Count))
		gl.Uniform1i(ctrlCountUniform, int32(snap.CtrlCount))
		return glgl.Err()
	}
	err = upload(snap)
	if err != nil {
		return err
	}

	// Set up mouse input tracking
	minZoom := float64(diag * 0.00001)
	maxZoom := float64(diag * 10)
	var (
		yaw              float64
		pitch            float64
		lastMouseX       float64
		lastMouseY       float64
		camDist          float64 = float64(diag) // initial camera distance
		firstMouseMove           = true
		isMousePressed           = false
		yawSensitivity           = 0.005
		pitchSensitivity         = 0.005
		refresh                  = true
		lastEdit                 = time.Now()
	)
	flagEdit := func() {
		refresh = true
		lastEdit = time.Now()
		gl.Uniform1i(antialiasingUniform, 1)
	}
	repack := func() {
		snap, err := scene.Pack(&pk)
		if err != nil {
			log.Println("repack:", err)
			return
		}
		if err := upload(snap); err != nil {
			log.Println("upload:", err)
			return
		}
		flagEdit()
	}
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		if !isMousePressed {
			return
		}
		flagEdit()
		if firstMouseMove {
			lastMouseX = xpos
			lastMouseY = ypos
			firstMouseMove = false
		}

		deltaX := xpos - lastMouseX
		deltaY := ypos - lastMouseY

		yaw += deltaX * yawSensitivity
		pitch -= deltaY * pitchSensitivity // Invert y-axis

		// Clamp pitch
		maxPitch := math.Pi/2 - 0.01
		if pitch > maxPitch {
			pitch = maxPitch
		}
		if pitch < -maxPitch {
			pitch = -maxPitch
		}

		lastMouseX = xpos
		lastMouseY = ypos
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		flagEdit()
		camDist -= yoff * (camDist*.1 + .01)
		if camDist < minZoom {
			camDist = minZoom // Minimum zoom level
		}
		if camDist > maxZoom {
			camDist = maxZoom // Maximum zoom level
		}
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		switch button {
		case glfw.MouseButtonLeft:
			flagEdit()
			if action == glfw.Press {
				isMousePressed = true
				firstMouseMove = true
				window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else if action == glfw.Release {
				isMousePressed = false
				window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
		}
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyTab:
			cycleSelection(scene)
			repack()
		case glfw.KeyR:
			repack()
		}
	})

	// Main render loop
	ctx := cfg.Context
	gl.Uniform1i(antialiasingUniform, 3)
OUTER:
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		width, height := window.GetSize()
		// Clear the screen
		gl.ClearColor(0.0, 0.0, 0.0, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		// Set uniforms
		prog.Bind()
		gl.Uniform1f(camDistUniform, float32(camDist))
		gl.Uniform2f(resUniform, float32(width), float32(height))
		gl.Uniform1f(yawUniform, float32(yaw))
		gl.Uniform1f(pitchUniform, float32(pitch))
		gl.Uniform3f(targetUniform, target.X, target.Y, target.Z)

		// Draw the quad
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		// Swap buffers and poll events
		window.SwapBuffers()

		// Limit frame rate
		for {
			time.Sleep(time.Second / 60)
			glfw.PollEvents()
			if refresh || window.ShouldClose() {
				refresh = false
				break
			} else if !isMousePressed && time.Since(lastEdit) > 300*time.Millisecond {
				gl.Uniform1i(antialiasingUniform, 3)
				lastEdit = lastEdit.Add(time.Hour)
				continue OUTER
			}
		}
	}
	return nil
}

// cycleSelection advances the single-selection cursor to the next
// primitive in packing order, wrapping to none after the last.
func cycleSelection(scene *claymarch.Scene) {
	n := scene.Len()
	if n == 0 {
		return
	}
	next := 0
	if ids := scene.SelectedIDs(); len(ids) > 0 {
		for i := 0; i < n; i++ {
			if scene.At(i).ID == ids[0] {
				next = i + 1
				break
			}
		}
	}
	scene.ClearSelection()
	if next < n {
		scene.Select(scene.At(next).ID)
	}
	scene.SetControlPoints(scene.SelectionHandles())
}

func packSlots(snap *claybuf.Snapshot) []slotGPU {
	slots := make([]slotGPU, snap.Count+1) // trailing End slot.
	for i := 0; i < snap.Count; i++ {
		s := &slots[i]
		s.invT = mat4ColMajor(snap.InvTransforms[i])
		c := snap.Colors[i]
		s.color = [4]float32{c.R, c.G, c.B, c.A}
		p := snap.Params[i]
		s.params = [4]float32{p.X, p.Y, p.Z, snap.DistScale[i]}
		s.meta[0] = int32(snap.Meta[i].Kind)
		if snap.Meta[i].Selected {
			s.meta[1] = 1
		}
	}
	return slots
}

func packCtrl(snap *claybuf.Snapshot) [][4]float32 {
	ctrl := make([][4]float32, snap.CtrlCount+1)
	for i := 0; i < snap.CtrlCount; i++ {
		cp := snap.Ctrl[i]
		ctrl[i] = [4]float32{cp.X, cp.Y, cp.Z, 1}
	}
	return ctrl
}

// mat4ColMajor extracts the matrix columns by transforming the basis
// so the layout never depends on the host storage order.
func mat4ColMajor(m ms3.Mat4) (a [16]float32) {
	t := m.MulPosition(ms3.Vec{})
	cx := ms3.Sub(m.MulPosition(ms3.Vec{X: 1}), t)
	cy := ms3.Sub(m.MulPosition(ms3.Vec{Y: 1}), t)
	cz := ms3.Sub(m.MulPosition(ms3.Vec{Z: 1}), t)
	a = [16]float32{
		cx.X, cx.Y, cx.Z, 0,
		cy.X, cy.Y, cy.Z, 0,
		cz.X, cz.Y, cz.Z, 0,
		t.X, t.Y, t.Z, 1,
	}
	return a
}

func loadSSBO[T any](slice []T, base, usage uint32) (ssbo uint32) {
	var p runtime.Pinner
	p.Pin(&ssbo)
	gl.GenBuffers(1, &ssbo)
	p.Unpin()
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, ssbo)
	size := len(slice) * int(unsafe.Sizeof(*new(T)))
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, unsafe.Pointer(&slice[0]), usage)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, base, ssbo)
	return ssbo
}

// makeFragSource composes the sphere-tracing fragment shader. March
// thresholds and kind tags come from claybuf so the GPU walk agrees
// with the CPU kernel.
func makeFragSource() string {
	return fmt.Sprintf(`#version 460
struct Slot {
    mat4 invT;
    vec4 color;
    vec4 params; // xyz shape parameter, w distance scale.
    ivec4 meta;  // x kind, y selected.
};
layout(std430, binding = 0) readonly buffer SlotBuf { Slot slots[]; };
layout(std430, binding = 1) readonly buffer CtrlBuf { vec4 ctrl[]; };

in vec2 vTexCoord;
out vec4 fragColor;

uniform int uCount;
uniform int uCtrlCount;
uniform float uCamDist;
uniform vec2 uResolution;
uniform float uYaw;
uniform float uPitch;
uniform vec3 uTarget;
uniform int uAA;

const int KIND_SPHERE = %d;
const int KIND_BOX = %d;
const int MAX_ITERATIONS = %d;
const float CLOSE_DIST = %g;
const float FAR_DIST = %g;
const float FAR_INIT = %g;
const float BLEND_DIST = %g;
const float STEP_SCALE = %g;

float slotDist(int i, vec3 p) {
    vec3 q = (slots[i].invT * vec4(p, 1.0)).xyz;
    float d;
    if (slots[i].meta.x == KIND_SPHERE) {
        d = length(q) - slots[i].params.x;
    } else if (slots[i].meta.x == KIND_BOX) {
        vec3 a = abs(q) - slots[i].params.xyz;
        d = length(max(a, vec3(0.0))) + min(max(a.x, max(a.y, a.z)), 0.0);
    } else {
        return 1e20;
    }
    return d * slots[i].params.w;
}

vec3 slotNormal(int i, vec3 p) {
    const float h = CLOSE_DIST;
    vec3 n = vec3(
        slotDist(i, p + vec3(h, 0, 0)) - slotDist(i, p - vec3(h, 0, 0)),
        slotDist(i, p + vec3(0, h, 0)) - slotDist(i, p - vec3(0, h, 0)),
        slotDist(i, p + vec3(0, 0, h)) - slotDist(i, p - vec3(0, 0, h)));
    if (n == vec3(0.0)) {
        return vec3(0.0, 1.0, 0.0);
    }
    return normalize(n);
}

void main() {
    vec2 fragCoord = vTexCoord * uResolution;

    vec3 ta = uTarget;
    vec3 dir;
    dir.x = cos(uPitch) * sin(uYaw);
    dir.y = sin(uPitch);
    dir.z = cos(uPitch) * cos(uYaw);
    vec3 ro = ta - dir * uCamDist;

    vec3 ww = normalize(ta - ro);
    vec3 uu = normalize(cross(ww, vec3(0.0, 1.0, 0.0)));
    vec3 vv = cross(uu, ww);

    const vec3 lightPos = vec3(2.0, 4.0, 4.0);
    const vec3 bg = vec3(0.12, 0.12, 0.14);
    vec3 tot = vec3(0.0);

    for (int m = 0; m < uAA; m++)
    for (int n = 0; n < uAA; n++)
    {
    vec2 o = vec2(float(m), float(n)) / float(uAA) - 0.5;
    vec2 px = (2.0 * (fragCoord + o) - uResolution) / uResolution.y;

    // Ray through the image plane, starting one unit behind it.
    vec3 dvec = px.x * uu + px.y * vv + 1.5 * ww;
    vec3 rd = normalize(dvec);
    vec3 pos = ro + rd * (length(dvec) - 1.0);

    float d = FAR_INIT;
    int closest = -1;
    vec4 col = vec4(0.0);
    bool hit = false;
    int steps = 0;
    for (int it = 0; it < MAX_ITERATIONS; it++) {
        steps++;
        d = FAR_INIT;
        for (int j = 0; j < uCount; j++) {
            if (slots[j].meta.x == 0) break;
            float dj = slotDist(j, pos);
            if (abs(dj) < abs(d)) closest = j;
            float q = abs(dj) / BLEND_DIST;
            q *= q;
            col = mix(col, slots[j].color, clamp(1.0 - q * q, 0.0, 1.0));
            d = min(d, dj);
            if (d < CLOSE_DIST) { hit = true; break; }
        }
        if (hit || abs(d) > FAR_DIST) break;
        pos += rd * max(d, 0.0) * STEP_SCALE;
    }

    vec3 shade = bg;
    if (hit && closest >= 0) {
        vec3 nor = slotNormal(closest, pos);
        vec3 ldir = normalize(lightPos - pos);
        float lambert = max(dot(nor, ldir), 0.0);
        float dif = lambert * lambert * lambert * lambert;
        vec3 refl = 2.0 * dot(nor, ldir) * nor - ldir;
        float sp = max(dot(refl, -rd), 0.0);
        float spec = 0.5 * sp * sp * sp * sp;
        float occ = clamp(2.0 * (1.0 - float(steps) / float(MAX_ITERATIONS)), 0.0, 1.0);
        shade = col.rgb * (dif + 0.35 * occ) + vec3(spec);
        if (slots[closest].meta.y != 0) {
            shade += vec3(0.25);
        }
        shade = clamp(shade, 0.0, 1.0);
    }

    // Control point overlay: fill disc and border ring sized by
    // camera distance, additive across points.
    vec4 over = vec4(0.0);
    for (int j = 0; j < uCtrlCount; j++) {
        vec3 cp = ctrl[j].xyz;
        float dcam = length(cp - ro);
        if (dcam == 0.0) continue;
        vec3 at = ro + rd * dcam;
        float off = length(at - cp);
        if (off < 0.012 * dcam) {
            over += vec4(1.0, 1.0, 1.0, 0.9);
        } else if (off < 0.02 * dcam) {
            over += vec4(0.05, 0.05, 0.05, 0.9);
        }
    }
    over = clamp(over, 0.0, 1.0);
    shade = over.rgb * over.a + shade * (1.0 - over.a);

    tot += sqrt(clamp(shade, 0.0, 1.0));
    }
    tot /= float(uAA * uAA);

    fragColor = vec4(tot, 1.0);
}
`+"\x00",
		claybuf.KindSphere, claybuf.KindBox,
		claybuf.MaxIterations, claybuf.CloseDist, claybuf.FarDist,
		claybuf.FarInit, claybuf.BlendDist, claybuf.StepScale)
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		log.Fatalln("Failed to initialize GLFW:", err)
	}

	// Create GLFW window
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, "claymarch scene viewer", nil, nil)
	if err != nil {
		log.Fatalln("Failed to create GLFW window:", err)
	}
	window.MakeContextCurrent()

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		log.Fatalln("Failed to initialize OpenGL:", err)
	}
	return window, glfw.Terminate, err
}

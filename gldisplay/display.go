// Package gldisplay draws shared pixel buffers to the current OpenGL context.
package gldisplay

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/clfractal/render"
	"go.uber.org/zap"
)

//go:embed quad.vert
var quadVertexShader string

//go:embed quad.frag
var quadFragmentShader string

// quad is a screen-filling triangle fan of {x, y, u, v} vertices.
var quad = []mgl32.Vec4{
	{-1, -1, 0, 0},
	{1, -1, 1, 0},
	{1, 1, 1, 1},
	{-1, 1, 0, 1},
}

type Options struct {
	// Debug enables GL debug output.
	Debug bool
}

// Display implements render.Display. It must only be used on the thread the
// GL context is current on.
type Display struct {
	log *zap.Logger

	program uint32
	vao     uint32
	vbo     uint32
	texLoc  int32
}

var _ render.Display = (*Display)(nil)

// New loads the GL functions for the current context and builds the quad program.
func New(log *zap.Logger, opts Options) (*Display, error) {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Display{log: log}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl.Init: %w", err)
	}
	log.Info("display context",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.DebugMessageCallback(d.debugMessage, nil)
	if opts.Debug {
		gl.Enable(gl.DEBUG_OUTPUT)
	}

	var err error
	d.program, err = linkProgram(quadVertexShader, quadFragmentShader)
	if err != nil {
		return nil, err
	}
	d.texLoc = gl.GetUniformLocation(d.program, gl.Str("tex\x00"))

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4*4, gl.Ptr(&quad[0][0]), gl.STATIC_DRAW)

	vert := uint32(gl.GetAttribLocation(d.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(vert)
	gl.VertexAttribPointerWithOffset(vert, 2, gl.FLOAT, false, 4*4, 0)

	uv := uint32(gl.GetAttribLocation(d.program, gl.Str("uv\x00")))
	gl.EnableVertexAttribArray(uv)
	gl.VertexAttribPointerWithOffset(uv, 2, gl.FLOAT, false, 4*4, 2*4)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := glError("create quad"); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func glError(op string) error {
	var errs []error
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		errs = append(errs, fmt.Errorf("GL error 0x%04x", code))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %w", op, errors.Join(errs...))
}

func (d *Display) Finish() {
	gl.Finish()
}

func (d *Display) CreatePixelBuffer(size int) (uint32, error) {
	var handle uint32
	gl.GenBuffers(1, &handle)
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, handle)
	gl.BufferData(gl.PIXEL_UNPACK_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)

	if err := glError("create pixel buffer"); err != nil {
		gl.DeleteBuffers(1, &handle)
		return 0, err
	}
	d.log.Debug("pixel buffer created", zap.Uint32("handle", handle), zap.Int("size", size))
	return handle, nil
}

func (d *Display) DeletePixelBuffer(handle uint32) {
	gl.DeleteBuffers(1, &handle)
}

func (d *Display) ReadPixelBuffer(handle uint32, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, handle)
	gl.GetBufferSubData(gl.PIXEL_UNPACK_BUFFER, 0, len(dst), gl.Ptr(&dst[0]))
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)
	return glError("read pixel buffer")
}

func (d *Display) CreateTexture(width, height int) (uint32, error) {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError("create texture"); err != nil {
		gl.DeleteTextures(1, &texture)
		return 0, err
	}
	return texture, nil
}

func (d *Display) DeleteTexture(handle uint32) {
	gl.DeleteTextures(1, &handle)
}

func (d *Display) UploadTexture(texture, pixelBuffer uint32, width, height int) {
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, pixelBuffer)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.PtrOffset(0))
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)
}

func (d *Display) DrawQuad(texture uint32, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(d.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.Uniform1i(d.texLoc, 0)

	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, int32(len(quad)))
	gl.BindVertexArray(0)
}

// Close deletes the quad program and geometry.
func (d *Display) Close() {
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
		d.vbo = 0
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
	if d.program != 0 {
		gl.DeleteProgram(d.program)
		d.program = 0
	}
}

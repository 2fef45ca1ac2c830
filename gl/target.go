package gl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// The storage format of a render target color attachment.
type Attachment struct {
	InternalFormat int32
	Format         uint32
	Type           uint32
}

var (
	// Slice map words.
	AttachmentRGBA32UI = Attachment{gl.RGBA32UI, gl.RGBA_INTEGER, gl.UNSIGNED_INT}

	// View space positions and normals.
	AttachmentRGB32F = Attachment{gl.RGB32F, gl.RGB, gl.FLOAT}

	// Material ids stored as normalized bytes.
	AttachmentR8 = Attachment{gl.R8, gl.RED, gl.UNSIGNED_BYTE}
)

// An offscreen framebuffer with a set of color textures and an optional
// depth renderbuffer.
type RenderTarget struct {
	width, height int32

	framebuffer uint32
	depthBuffer uint32

	textures    []uint32
	attachments []Attachment
}

// Create a render target and verify its completeness.
func NewRenderTarget(width, height int, withDepth bool, attachments ...Attachment) (*RenderTarget, error) {
	rt := &RenderTarget{
		width:       int32(width),
		height:      int32(height),
		attachments: attachments,
		textures:    make([]uint32, len(attachments)),
	}

	gl.GenFramebuffers(1, &rt.framebuffer)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, rt.framebuffer)

	if withDepth {
		gl.GenRenderbuffers(1, &rt.depthBuffer)
		gl.BindRenderbuffer(gl.RENDERBUFFER, rt.depthBuffer)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT32, rt.width, rt.height)
		gl.FramebufferRenderbuffer(gl.DRAW_FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rt.depthBuffer)
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	}

	if len(rt.textures) > 0 {
		gl.GenTextures(int32(len(rt.textures)), &rt.textures[0])
	}
	for i, tex := range rt.textures {
		att := attachments[i]
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexImage2D(gl.TEXTURE_2D, 0, att.InternalFormat, rt.width, rt.height, 0, att.Format, att.Type, nil)
		gl.FramebufferTexture(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(i), tex, 0)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	status := gl.CheckFramebufferStatus(gl.DRAW_FRAMEBUFFER)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		rt.Release()
		return nil, &ResourceCreationError{Target: "framebuffer", Status: status}
	}

	return rt, nil
}

// Get the render target size.
func (rt *RenderTarget) Size() (int, int) {
	return int(rt.width), int(rt.height)
}

// Get the color textures in attachment order.
func (rt *RenderTarget) Textures() []uint32 {
	return rt.textures
}

// Reallocate the attachment storage. Contents are undefined afterwards.
func (rt *RenderTarget) Resize(width, height int) {
	if int32(width) == rt.width && int32(height) == rt.height {
		return
	}
	rt.width, rt.height = int32(width), int32(height)

	if rt.depthBuffer != 0 {
		gl.BindRenderbuffer(gl.RENDERBUFFER, rt.depthBuffer)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT32, rt.width, rt.height)
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	}
	for i, tex := range rt.textures {
		att := rt.attachments[i]
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, att.InternalFormat, rt.width, rt.height, 0, att.Format, att.Type, nil)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Bind the render target for drawing into all its color attachments and
// set the viewport to its size.
func (rt *RenderTarget) Bind() {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, rt.framebuffer)
	drawBuffers := make([]uint32, len(rt.textures))
	for i := range drawBuffers {
		drawBuffers[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	if len(drawBuffers) > 0 {
		gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
	}
	gl.Viewport(0, 0, rt.width, rt.height)
}

// Restore the default framebuffer.
func (rt *RenderTarget) Unbind() {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
}

// Clear an unsigned integer color attachment to zero. The target must be bound.
func (rt *RenderTarget) ClearUint(attachment int) {
	var zero [4]uint32
	gl.ClearBufferuiv(gl.COLOR, int32(attachment), &zero[0])
}

// Clear a float color attachment. The target must be bound.
func (rt *RenderTarget) ClearFloat(attachment int, value [4]float32) {
	gl.ClearBufferfv(gl.COLOR, int32(attachment), &value[0])
}

// Clear the depth attachment to the far plane. The target must be bound.
func (rt *RenderTarget) ClearDepth() {
	far := float32(1)
	gl.ClearBufferfv(gl.DEPTH, 0, &far)
}

// Free the framebuffer and its attachments.
func (rt *RenderTarget) Release() {
	if len(rt.textures) > 0 && rt.textures[0] != 0 {
		gl.DeleteTextures(int32(len(rt.textures)), &rt.textures[0])
		for i := range rt.textures {
			rt.textures[i] = 0
		}
	}
	if rt.depthBuffer != 0 {
		gl.DeleteRenderbuffers(1, &rt.depthBuffer)
		rt.depthBuffer = 0
	}
	if rt.framebuffer != 0 {
		gl.DeleteFramebuffers(1, &rt.framebuffer)
		rt.framebuffer = 0
	}
}

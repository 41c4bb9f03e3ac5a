package render

import "fmt"

// Surface is the display texture the shared buffer is copied into before drawing.
type Surface struct {
	display Display
	width   int
	height  int
	texture uint32
}

func NewSurface(display Display, width, height int) (*Surface, error) {
	tex, err := display.CreateTexture(width, height)
	if err != nil {
		return nil, newError(BufferCreationFailed, "create texture", err)
	}
	return &Surface{
		display: display,
		width:   width,
		height:  height,
		texture: tex,
	}, nil
}

func (s *Surface) Width() int      { return s.width }
func (s *Surface) Height() int     { return s.height }
func (s *Surface) Texture() uint32 { return s.texture }

// Present copies b into the texture and draws it over the whole display.
func (s *Surface) Present(b *SharedBuffer) error {
	if b.Acquired() {
		return ErrAcquired
	}
	if b.Width() != s.width || b.Height() != s.height {
		return fmt.Errorf("present: buffer is %dx%d, surface is %dx%d", b.Width(), b.Height(), s.width, s.height)
	}
	s.display.UploadTexture(s.texture, b.Handle(), s.width, s.height)
	s.display.DrawQuad(s.texture, s.width, s.height)
	return nil
}

func (s *Surface) Destroy() {
	if s.texture != 0 {
		s.display.DeleteTexture(s.texture)
		s.texture = 0
	}
}

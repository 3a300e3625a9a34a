package flappybird

import (
	"fmt"

	"github.com/fogleman/gg"
)

// Render draws the current frame of the environment and saves it as a
// PNG at the argument path. The drawing context uses pixel
// coordinates with the origin at the bottom left of the screen.
func (f *FlappyBird) Render(path string) error {
	dc := gg.NewContext(int(ScreenWidth), int(ScreenHeight))

	// Sky
	dc.SetRGB(0.44, 0.77, 0.81)
	dc.Clear()

	// Pipes
	dc.SetRGB(0.33, 0.75, 0.31)
	for _, p := range f.pipes {
		dc.DrawRectangle(p.x, 0, PipeWidth, toPixelY(p.top()))
		dc.Fill()
		dc.DrawRectangle(p.x, toPixelY(p.bottom()), PipeWidth, p.bottom())
		dc.Fill()
	}

	// Bird
	birdY := f.bird.GetPosition().Y * Scale
	dc.SetRGB(0.96, 0.80, 0.18)
	dc.DrawCircle(BirdX, toPixelY(birdY), BirdRadius)
	dc.Fill()

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: could not save frame: %v", err)
	}
	return nil
}

// toPixelY converts a world height to an image y coordinate, which
// grows downward from the top of the image
func toPixelY(y float64) float64 {
	return ScreenHeight - y
}

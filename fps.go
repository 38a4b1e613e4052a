package milun

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// drawFPS prints the measured FPS and TPS in the top-left corner of screen.
// It is drawn after the back buffer is blitted so it never ends up in
// screenshots or in frames that keep the previous contents.
func drawFPS(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

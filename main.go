package main

import (
	"pocket8/cmd"

	"github.com/faiface/pixel/pixelgl"
)

func main() {
	// pixelgl owns the main thread; everything else runs inside it
	pixelgl.Run(cmd.Execute)
}

package spheres3d

const (
	ChR = 0
	ChG = 1
	ChB = 2
	// FloatsPerPixel is the stride of a rendered image.
	FloatsPerPixel = 3
	TileGrid       = 4 // the image is split into TileGrid × TileGrid tiles
	GIFOut         = "frames.gif"
	GIFDelay       = 10 // 100ths of a second per frame
	Gamma          = 1.0
	Frames         = 12
	// timeEps ends a frame once less than this much simulated time is left.
	timeEps = 1e-6
)

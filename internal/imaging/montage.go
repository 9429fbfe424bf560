package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// MontageOptions describes the tile grid a montage is laid out on.
type MontageOptions struct {
	// Rows and Cols define the grid. Tiles fill the grid row-major; extra
	// images beyond Rows*Cols are ignored.
	Rows int
	Cols int

	// TileSize is the cell size in pixels. Images are resized to fit inside
	// their cell with aspect ratio preserved, then centered in it.
	TileSize image.Point

	// Gutter is the spacing in pixels between cells and around the border.
	Gutter int

	// Background fills the canvas and any space tiles do not cover.
	// Nil means black.
	Background color.Color
}

// Montage lays a list of images out on a grid and returns the combined
// raster. Nil entries (empty crops) leave their cell blank, so a montage of
// CropRegions output keeps its positional correspondence with the input
// shapes.
func Montage(images []image.Image, opts MontageOptions) (*image.NRGBA, error) {
	if opts.Rows <= 0 || opts.Cols <= 0 {
		return nil, fmt.Errorf("invalid montage layout %dx%d", opts.Rows, opts.Cols)
	}
	if opts.TileSize.X <= 0 || opts.TileSize.Y <= 0 {
		return nil, fmt.Errorf("invalid tile size %dx%d", opts.TileSize.X, opts.TileSize.Y)
	}
	bg := opts.Background
	if bg == nil {
		bg = color.Black
	}

	tw, th := opts.TileSize.X, opts.TileSize.Y
	g := opts.Gutter
	canvasW := opts.Cols*tw + (opts.Cols+1)*g
	canvasH := opts.Rows*th + (opts.Rows+1)*g
	canvas := imaging.New(canvasW, canvasH, bg)

	for i, img := range images {
		if i >= opts.Rows*opts.Cols {
			break
		}
		if img == nil {
			continue
		}
		row := i / opts.Cols
		col := i % opts.Cols
		tile := imaging.Fit(img, tw, th, imaging.Lanczos)

		// Center the fitted tile within its cell.
		x := g + col*(tw+g) + (tw-tile.Bounds().Dx())/2
		y := g + row*(th+g) + (th-tile.Bounds().Dy())/2
		canvas = imaging.Paste(canvas, tile, image.Pt(x, y))
	}
	return canvas, nil
}

// MontageCrops is a convenience over Montage for CropRegions output: empty
// placeholders become blank cells.
func MontageCrops(crops []RegionCrop, opts MontageOptions) (*image.NRGBA, error) {
	images := make([]image.Image, len(crops))
	for i, c := range crops {
		if !c.Empty() {
			images[i] = c.Image
		}
	}
	return Montage(images, opts)
}

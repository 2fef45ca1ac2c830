package deferred

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/mrjoshuak/go-openexr/exr"
)

// Debug flags select the intermediate buffers written after each frame.
type DebugFlag uint16

const (
	DebugOff      DebugFlag = 0
	DebugGBuffer  DebugFlag = 1 << iota
	DebugAmbient
	DebugSliceMap
)

// Write the G-buffer position and normal attachments as float EXR images
// named <prefix>-position.exr and <prefix>-normal.exr. The alpha channel is
// 1 for covered pixels.
func (c *Compositor) DumpGBuffer(prefix string) error {
	gb := c.gbuf
	rect := image.Rect(0, 0, gb.Width, gb.Height)
	posImg := exr.NewRGBAImage(rect)
	normalImg := exr.NewRGBAImage(rect)

	for y := 0; y < gb.Height; y++ {
		for x := 0; x < gb.Width; x++ {
			index := gb.Index(x, y)
			if gb.Material[index] == NoMaterial {
				continue
			}
			p, n := gb.Position[index], gb.Normal[index]
			posImg.SetRGBA(x, y, p[0], p[1], p[2], 1)
			normalImg.SetRGBA(x, y, n[0], n[1], n[2], 1)
		}
	}

	if err := exr.EncodeFile(prefix+"-position.exr", posImg); err != nil {
		return fmt.Errorf("dump gbuffer: %s", err)
	}
	if err := exr.EncodeFile(prefix+"-normal.exr", normalImg); err != nil {
		return fmt.Errorf("dump gbuffer: %s", err)
	}
	return nil
}

// Write the per-pixel ambient factors as a grayscale png.
func (c *Compositor) DumpAmbient(imgFile string) error {
	im := image.NewGray(image.Rect(0, 0, c.gbuf.Width, c.gbuf.Height))
	for index, factor := range c.ambient {
		im.Pix[index] = uint8(clamp01(factor)*255 + 0.5)
	}
	return writePNG(imgFile, im)
}

// Write the top-down occupancy of the slice map as a png; brighter texels
// contain more occupied buckets.
func (c *Compositor) DumpSliceMap(imgFile string) error {
	sm := c.sliceMap
	im := image.NewGray(image.Rect(0, 0, sm.Resolution, sm.Resolution))
	for y := 0; y < sm.Resolution; y++ {
		for x := 0; x < sm.Resolution; x++ {
			count := len(sm.OccupiedBuckets(x, y))
			im.Pix[y*im.Stride+x] = uint8(255 * count / sm.Buckets)
		}
	}
	return writePNG(imgFile, im)
}

// Write the last rendered frame as a png.
func (c *Compositor) SaveFrame(imgFile string) error {
	return writePNG(imgFile, c.frame)
}

// Write the debug buffers selected by flags using prefix for file names.
func (c *Compositor) Dump(flags DebugFlag, prefix string) error {
	if flags&DebugGBuffer == DebugGBuffer {
		if err := c.DumpGBuffer(prefix); err != nil {
			return err
		}
	}
	if flags&DebugAmbient == DebugAmbient {
		if err := c.DumpAmbient(prefix + "-ambient.png"); err != nil {
			return err
		}
	}
	if flags&DebugSliceMap == DebugSliceMap {
		if err := c.DumpSliceMap(prefix + "-slicemap.png"); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(imgFile string, im image.Image) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, im)
}

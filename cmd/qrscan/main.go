package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/scanline/qr"
)

// maxFrameEdge bounds the working frame; camera photos far larger than
// this only slow detection down without helping it.
const maxFrameEdge = 2048

func main() {
	tryHarder := flag.Bool("try-harder", false, "spend more time looking for a symbol")
	charset := flag.String("charset", "", "assumed encoding for byte segments without an ECI designator")
	verbose := flag.Bool("verbose", false, "print symbol metadata to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: qrscan [flags] <image-file> [image-file...]\n\n")
		fmt.Fprintf(os.Stderr, "Decode QR codes in image files (PNG, JPEG, GIF, BMP, TIFF).\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	opts := &qr.Options{TryHarder: *tryHarder, CharacterSet: *charset}

	exitCode := 0
	for _, path := range flag.Args() {
		result, err := scanFile(path, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", path, err)
			exitCode = 1
			continue
		}
		if flag.NArg() > 1 {
			fmt.Printf("%s: ", path)
		}
		fmt.Println(result.Text)
		if *verbose {
			fmt.Fprintf(os.Stderr, "%s: version %d, level %s, mask %d, %d errors corrected\n",
				path, result.Version, result.ECLevel, result.Mask, result.ErrorsCorrected)
			if result.Mirrored {
				fmt.Fprintf(os.Stderr, "%s: symbol was mirrored\n", path)
			}
			if result.SASequence >= 0 {
				fmt.Fprintf(os.Stderr, "%s: structured append symbol %d of %d\n",
					path, result.SASequence>>4+1, (result.SASequence&0x0F)+1)
			}
		}
	}
	os.Exit(exitCode)
}

func scanFile(path string, opts *qr.Options) (*qr.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return qr.Decode(downscale(img), opts)
}

// downscale shrinks oversized frames, preserving aspect ratio.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxFrameEdge && h <= maxFrameEdge {
		return img
	}

	scale := float64(maxFrameEdge) / float64(max(w, h))
	dst := image.NewGray(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

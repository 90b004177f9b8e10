// Package preprocess implements the frame preprocessing pipeline using
// GoCV (OpenCV): resize, grayscale, Gaussian blur, CLAHE contrast
// enhancement and Canny edge detection.
package preprocess

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

// Pipeline parameters. Target width drives the resize scale; the
// remaining constants are the blur kernel, CLAHE and Canny settings.
const (
	targetWidth    = 640
	blurKernel     = 5
	claheClipLimit = 2.0
	claheTileSize  = 8
	cannyLow       = 60
	cannyHigh      = 140
)

// PipelineDescription names the processing stages in order.
const PipelineDescription = "resize -> gray -> gaussian -> clahe -> canny"

// ErrDecodeFailed is returned when the uploaded bytes are not a
// decodable image.
var ErrDecodeFailed = errors.New("failed to decode image")

// Result describes one processed frame.
type Result struct {
	Pipeline      string
	OriginalFile  string
	ProcessedFile string
	// Sizes are [height, width] pairs.
	OriginalSize  [2]int
	ProcessedSize [2]int
}

// Processor writes original and processed frames into an output
// directory.
type Processor struct {
	outputDir string
}

// NewProcessor creates a Processor writing into outputDir. The
// directory is created on first use.
func NewProcessor(outputDir string) *Processor {
	return &Processor{outputDir: outputDir}
}

// Process decodes the frame, runs the pipeline and writes both the
// original and the edge-detected result as JPEG files.
func (p *Processor) Process(data []byte) (*Result, error) {
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, ErrDecodeFailed
	}
	defer img.Close()

	if img.Empty() {
		return nil, ErrDecodeFailed
	}

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	width := img.Cols()
	height := img.Rows()

	scale := float64(targetWidth) / float64(max(width, 1))
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Pt(newWidth, newHeight), 0, 0, gocv.InterpolationArea)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(resized, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)

	clahe := gocv.NewCLAHEWithParams(claheClipLimit, image.Pt(claheTileSize, claheTileSize))
	defer clahe.Close()
	enhanced := gocv.NewMat()
	defer enhanced.Close()
	clahe.Apply(blurred, &enhanced)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(enhanced, &edges, cannyLow, cannyHigh)

	processed := gocv.NewMat()
	defer processed.Close()
	gocv.CvtColor(edges, &processed, gocv.ColorGrayToBGR)

	base := fmt.Sprintf("%s_%03d",
		time.Now().Format("20060102_150405"),
		time.Now().UnixMilli()%1000)
	origPath := filepath.Join(p.outputDir, base+"_orig.jpg")
	procPath := filepath.Join(p.outputDir, base+"_proc.jpg")

	if ok := gocv.IMWrite(origPath, img); !ok {
		return nil, fmt.Errorf("failed to write %s", origPath)
	}
	if ok := gocv.IMWrite(procPath, processed); !ok {
		return nil, fmt.Errorf("failed to write %s", procPath)
	}

	return &Result{
		Pipeline:      PipelineDescription,
		OriginalFile:  filepath.ToSlash(origPath),
		ProcessedFile: filepath.ToSlash(procPath),
		OriginalSize:  [2]int{height, width},
		ProcessedSize: [2]int{newHeight, newWidth},
	}, nil
}

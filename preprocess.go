package main

import (
	"fmt"
	"image"
	"math"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Preprocessing constants. The model was trained on 224x224 center crops of
// images resized to a 256-pixel shorter side, normalized with the ImageNet
// channel statistics.
const (
	resizeShorter = 256
	cropSize      = 224
)

var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// loadAndPreprocess decodes the image at path and produces the flattened
// [1, 3, 224, 224] CHW tensor the classifier expects. The transform is
// deterministic: isotropic resize so the shorter side is resizeShorter,
// center-crop cropSize, scale pixel values to [0, 1], normalize per channel.
func loadAndPreprocess(path string) ([]float32, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("%w: %s", errDecodeImage, path)
	}
	defer closeMat(&img, path)

	width := img.Cols()
	height := img.Rows()
	shorter := width
	if height < shorter {
		shorter = height
	}
	if shorter <= 0 {
		return nil, fmt.Errorf("%w: %s", errDecodeImage, path)
	}

	// Scale the longer side by the same factor that brings the shorter side
	// to exactly resizeShorter.
	scale := float64(resizeShorter) / float64(shorter)
	scaledW := resizeShorter
	scaledH := resizeShorter
	if width < height {
		scaledH = int(math.Round(float64(height) * scale))
	} else if height < width {
		scaledW = int(math.Round(float64(width) * scale))
	}

	resized := gocv.NewMat()
	defer closeMat(&resized, path)
	gocv.Resize(img, &resized, image.Pt(scaledW, scaledH), 0, 0, gocv.InterpolationLinear)

	x0 := (scaledW - cropSize) / 2
	y0 := (scaledH - cropSize) / 2
	region := resized.Region(image.Rect(x0, y0, x0+cropSize, y0+cropSize))
	cropped := region.Clone()
	closeMat(&region, path)
	defer closeMat(&cropped, path)

	// IMRead decodes to BGR channel order; the model expects RGB.
	rgb := gocv.NewMat()
	defer closeMat(&rgb, path)
	gocv.CvtColor(cropped, &rgb, gocv.ColorBGRToRGB)

	pixels, err := rgb.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errDecodeImage, path, err)
	}

	// Interleaved HWC bytes to planar CHW floats.
	const plane = cropSize * cropSize
	tensor := make([]float32, 3*plane)
	for i := 0; i < plane; i++ {
		for c := 0; c < 3; c++ {
			v := float32(pixels[i*3+c]) / 255.0
			tensor[c*plane+i] = (v - channelMean[c]) / channelStd[c]
		}
	}

	return tensor, nil
}

// Closes a Mat and logs any failure; Close errors are not actionable by
// callers mid-pipeline.
func closeMat(m *gocv.Mat, path string) {
	if err := m.Close(); err != nil {
		log.WithFields(log.Fields{"path": path, "error": err}).Error("Error closing image matrix")
	}
}

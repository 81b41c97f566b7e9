package vision

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"gocv.io/x/gocv"
)

// Detector locates the receipt region in a photograph and returns a cropped,
// possibly perspective-corrected image. Implementations must never fail: on
// any internal error the input image is returned unchanged.
type Detector interface {
	DetectAndCrop(img image.Image) image.Image
}

// DetectConfig carries the tuned constants of the detection heuristic. The
// defaults encode empirically tuned behavior; change values, not control flow.
type DetectConfig struct {
	// WhiteThresholds are the candidate binarization levels of the
	// white-background pass, tried in order.
	WhiteThresholds []float32
	// WhiteKernelSize is the square morphology kernel of the first pass.
	WhiteKernelSize int
	// MinAreaRatio/MaxAreaRatio bound the accepted contour area relative to
	// the full image.
	MinAreaRatio float64
	MaxAreaRatio float64
	// PolyEpsilonFrac is the polygon-approximation tolerance as a fraction
	// of the contour perimeter.
	PolyEpsilonFrac float64
	// MinAspect/MaxAspect accept elongated regions in the first pass even
	// without four corners.
	MinAspect float64
	MaxAspect float64
	// CropMargin is added around accepted bounding boxes, clamped to the
	// image bounds.
	CropMargin int
	// MinCropRetention rejects first-pass crops that keep less than this
	// fraction of the original pixels. A guard against near-empty crops,
	// not a semantically meaningful boundary.
	MinCropRetention float64

	// Fallback pass.
	FallbackKernelSizes []int
	CLAHEClipLimit      float64
	CLAHETileSize       int
	FixedWhiteThreshold float32
	AdaptiveSmallBlock  int
	AdaptiveSmallC      float32
	AdaptiveLargeBlock  int
	AdaptiveLargeC      float32

	// Candidate scoring.
	ScoreBonusCorners float64
	ScoreBonusAspect  float64
	ScoreAspectLo     float64
	ScoreAspectHi     float64
	ScoreBonusWhite   float64

	// MinWarpSize is the minimum destination edge for perspective
	// correction; smaller quads fall back to a bounding-box crop.
	MinWarpSize int
}

// DefaultDetectConfig returns the tuned defaults.
func DefaultDetectConfig() DetectConfig {
	return DetectConfig{
		WhiteThresholds:     []float32{200, 180, 220},
		WhiteKernelSize:     30,
		MinAreaRatio:        0.10,
		MaxAreaRatio:        0.90,
		PolyEpsilonFrac:     0.02,
		MinAspect:           1.2,
		MaxAspect:           6.0,
		CropMargin:          20,
		MinCropRetention:    0.10,
		FallbackKernelSizes: []int{15, 25, 30},
		CLAHEClipLimit:      2.0,
		CLAHETileSize:       8,
		FixedWhiteThreshold: 200,
		AdaptiveSmallBlock:  9,
		AdaptiveSmallC:      2,
		AdaptiveLargeBlock:  15,
		AdaptiveLargeC:      3,
		ScoreBonusCorners:   1.5,
		ScoreBonusAspect:    1.2,
		ScoreAspectLo:       1.5,
		ScoreAspectHi:       5.0,
		ScoreBonusWhite:     1.3,
		MinWarpSize:         50,
	}
}

// ReceiptDetector is the OpenCV-backed Detector.
type ReceiptDetector struct {
	cfg DetectConfig
	log *slog.Logger
}

func NewReceiptDetector(cfg DetectConfig, logger *slog.Logger) *ReceiptDetector {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.WhiteThresholds) == 0 {
		cfg = DefaultDetectConfig()
	}
	return &ReceiptDetector{cfg: cfg, log: logger}
}

// DetectAndCrop runs the white-background pass first (receipts are usually
// the bright region of the photo) and the multi-method fallback pass second.
// Every internal failure degrades to returning the input unchanged.
func (d *ReceiptDetector) DetectAndCrop(img image.Image) image.Image {
	if out, ok := d.tryPass(img, d.whiteBackgroundPass); ok {
		in := img.Bounds()
		ob := out.Bounds()
		if float64(ob.Dx()*ob.Dy()) > float64(in.Dx()*in.Dy())*d.cfg.MinCropRetention {
			return out
		}
		d.log.Debug("detect.white.rejected_small", "w", ob.Dx(), "h", ob.Dy())
	}
	if out, ok := d.tryPass(img, d.multiMethodPass); ok {
		return out
	}
	return img
}

// tryPass isolates a detection stage: a panic or error inside it aborts the
// stage and falls through to the next.
func (d *ReceiptDetector) tryPass(img image.Image, pass func(image.Image) (image.Image, error)) (out image.Image, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("detect.pass.panic", "panic", fmt.Sprint(r))
			out, ok = nil, false
		}
	}()
	res, err := pass(img)
	if err != nil || res == nil {
		if err != nil {
			d.log.Debug("detect.pass.miss", "error", err)
		}
		return nil, false
	}
	return res, true
}

// whiteBackgroundPass thresholds at several bright levels, merges fragments
// with a large close/open kernel, and accepts the largest contour when its
// size and shape look like a receipt.
func (d *ReceiptDetector) whiteBackgroundPass(img image.Image) (image.Image, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	imageArea := float64(gray.Rows() * gray.Cols())

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(d.cfg.WhiteKernelSize, d.cfg.WhiteKernelSize))
	defer kernel.Close()

	for _, threshold := range d.cfg.WhiteThresholds {
		mask := gocv.NewMat()
		gocv.Threshold(gray, &mask, threshold, 255, gocv.ThresholdBinary)
		gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
		gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)

		contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
		idx, area := largestContour(contours)
		if idx < 0 {
			contours.Close()
			mask.Close()
			continue
		}
		largest := contours.At(idx)
		ratio := area / imageArea
		if ratio <= d.cfg.MinAreaRatio || ratio >= d.cfg.MaxAreaRatio {
			contours.Close()
			mask.Close()
			continue
		}

		epsilon := d.cfg.PolyEpsilonFrac * gocv.ArcLength(largest, true)
		approx := gocv.ApproxPolyDP(largest, epsilon, true)
		corners := approx.Size()
		approx.Close()

		rect := gocv.BoundingRect(largest)
		aspect := aspectRatio(rect)
		contours.Close()
		mask.Close()

		if corners >= 4 || (aspect > d.cfg.MinAspect && aspect < d.cfg.MaxAspect) {
			d.log.Debug("detect.white.accept", "threshold", threshold, "area_ratio", ratio, "corners", corners, "aspect", aspect)
			return d.cropWithMargin(src, rect)
		}
	}
	return nil, fmt.Errorf("no white-background candidate")
}

// candidate is one receipt-boundary hypothesis from the fallback pass.
type candidate struct {
	score   float64
	corners []image.Point // set only when the polygon has exactly 4 corners
	rect    image.Rectangle
}

// multiMethodPass enhances local contrast and evaluates four threshold
// methods against three morphology kernel sizes, keeping the single
// highest-scoring candidate. Ties keep the first encountered.
func (d *ReceiptDetector) multiMethodPass(img image.Image) (image.Image, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	imageArea := float64(gray.Rows() * gray.Cols())

	clahe := gocv.NewCLAHEWithParams(d.cfg.CLAHEClipLimit, image.Pt(d.cfg.CLAHETileSize, d.cfg.CLAHETileSize))
	defer clahe.Close()
	enhanced := gocv.NewMat()
	defer enhanced.Close()
	clahe.Apply(gray, &enhanced)

	type method struct {
		name  string
		apply func(dst *gocv.Mat)
	}
	methods := []method{
		{"otsu", func(dst *gocv.Mat) {
			gocv.Threshold(enhanced, dst, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
		}},
		{"adaptive_small", func(dst *gocv.Mat) {
			gocv.AdaptiveThreshold(enhanced, dst, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, d.cfg.AdaptiveSmallBlock, d.cfg.AdaptiveSmallC)
		}},
		{"adaptive_large", func(dst *gocv.Mat) {
			gocv.AdaptiveThreshold(enhanced, dst, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, d.cfg.AdaptiveLargeBlock, d.cfg.AdaptiveLargeC)
		}},
		{"white_thresh", func(dst *gocv.Mat) {
			gocv.Threshold(enhanced, dst, d.cfg.FixedWhiteThreshold, 255, gocv.ThresholdBinary)
		}},
	}

	var best *candidate
	for _, m := range methods {
		thresh := gocv.NewMat()
		m.apply(&thresh)

		for _, size := range d.cfg.FallbackKernelSizes {
			kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(size, size))
			morph := gocv.NewMat()
			gocv.MorphologyEx(thresh, &morph, gocv.MorphClose, kernel)
			gocv.MorphologyEx(morph, &morph, gocv.MorphOpen, kernel)
			kernel.Close()

			cand := d.scoreLargestContour(morph, imageArea, m.name == "white_thresh")
			morph.Close()
			if cand != nil && (best == nil || cand.score > best.score) {
				d.log.Debug("detect.fallback.candidate", "method", m.name, "kernel", size, "score", cand.score)
				best = cand
			}
		}
		thresh.Close()
	}
	if best == nil {
		return nil, fmt.Errorf("no fallback candidate")
	}

	if len(best.corners) == 4 {
		if out, err := d.rectify(src, best.corners); err == nil {
			return out, nil
		}
	}
	return d.cropWithMargin(src, best.rect)
}

// scoreLargestContour extracts the largest external contour of a binary mask
// and scores it, or returns nil when the contour is rejected.
func (d *ReceiptDetector) scoreLargestContour(mask gocv.Mat, imageArea float64, whiteMethod bool) *candidate {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	idx, area := largestContour(contours)
	if idx < 0 {
		return nil
	}
	largest := contours.At(idx)

	ratio := area / imageArea
	if ratio <= d.cfg.MinAreaRatio || ratio >= d.cfg.MaxAreaRatio {
		return nil
	}

	epsilon := d.cfg.PolyEpsilonFrac * gocv.ArcLength(largest, true)
	approx := gocv.ApproxPolyDP(largest, epsilon, true)
	points := approx.ToPoints()
	approx.Close()

	rect := gocv.BoundingRect(largest)
	aspect := aspectRatio(rect)

	score := ratio
	if len(points) == 4 {
		score *= d.cfg.ScoreBonusCorners
	}
	if aspect > d.cfg.ScoreAspectLo && aspect < d.cfg.ScoreAspectHi {
		score *= d.cfg.ScoreBonusAspect
	}
	if whiteMethod {
		score *= d.cfg.ScoreBonusWhite
	}

	c := &candidate{score: score, rect: rect}
	if len(points) == 4 {
		c.corners = points
	}
	return c
}

// rectify orders the four corners and warps the quadrilateral onto an
// axis-aligned rectangle sized by the longer of each pair of opposite edges.
func (d *ReceiptDetector) rectify(src gocv.Mat, corners []image.Point) (image.Image, error) {
	tl, tr, br, bl := orderCorners(corners)

	maxWidth := int(math.Max(dist(br, bl), dist(tr, tl)))
	maxHeight := int(math.Max(dist(tr, br), dist(tl, bl)))
	if maxWidth <= d.cfg.MinWarpSize || maxHeight <= d.cfg.MinWarpSize {
		return nil, fmt.Errorf("warp target too small: %dx%d", maxWidth, maxHeight)
	}

	srcPts := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		toPoint2f(tl), toPoint2f(tr), toPoint2f(br), toPoint2f(bl),
	})
	defer srcPts.Close()
	dstPts := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: 0, Y: 0},
		{X: float32(maxWidth - 1), Y: 0},
		{X: float32(maxWidth - 1), Y: float32(maxHeight - 1)},
		{X: 0, Y: float32(maxHeight - 1)},
	})
	defer dstPts.Close()

	m := gocv.GetPerspectiveTransform2f(srcPts, dstPts)
	defer m.Close()
	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpPerspective(src, &warped, m, image.Pt(maxWidth, maxHeight))

	return warped.ToImage()
}

func (d *ReceiptDetector) cropWithMargin(src gocv.Mat, r image.Rectangle) (image.Image, error) {
	m := d.cfg.CropMargin
	x0 := max(0, r.Min.X-m)
	y0 := max(0, r.Min.Y-m)
	x1 := min(src.Cols(), r.Max.X+m)
	y1 := min(src.Rows(), r.Max.Y+m)
	if x1 <= x0 || y1 <= y0 {
		return nil, fmt.Errorf("empty crop region")
	}
	region := src.Region(image.Rect(x0, y0, x1, y1))
	defer region.Close()
	return region.ToImage()
}

func largestContour(contours gocv.PointsVector) (int, float64) {
	idx, best := -1, 0.0
	for i := 0; i < contours.Size(); i++ {
		if a := gocv.ContourArea(contours.At(i)); a > best {
			idx, best = i, a
		}
	}
	return idx, best
}

func aspectRatio(r image.Rectangle) float64 {
	w, h := float64(r.Dx()), float64(r.Dy())
	if w <= 0 || h <= 0 {
		return 0
	}
	return math.Max(w, h) / math.Min(w, h)
}

// orderCorners identifies the quad corners: top-left has the minimal
// coordinate sum, bottom-right the maximal sum, top-right the minimal y-x
// difference, bottom-left the maximal.
func orderCorners(pts []image.Point) (tl, tr, br, bl image.Point) {
	tl, tr, br, bl = pts[0], pts[0], pts[0], pts[0]
	for _, p := range pts {
		sum, diff := p.X+p.Y, p.Y-p.X
		if sum < tl.X+tl.Y {
			tl = p
		}
		if sum > br.X+br.Y {
			br = p
		}
		if diff < tr.Y-tr.X {
			tr = p
		}
		if diff > bl.Y-bl.X {
			bl = p
		}
	}
	return tl, tr, br, bl
}

func dist(a, b image.Point) float64 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func toPoint2f(p image.Point) gocv.Point2f {
	return gocv.Point2f{X: float32(p.X), Y: float32(p.Y)}
}

package imagecmd

import (
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/fhuszti/medias-conversion-ms/internal/graph"
	"github.com/fhuszti/medias-conversion-ms/internal/sizespec"
)

const (
	EngineVersion = "7.1.0"

	Colorspace = "RGB"
	Interlace  = "Plane"
	Quality    = 85

	// BlurScaleFactor and BlurSigma define the resample-based blur. Changing
	// either changes every blurred variant.
	BlurScaleFactor = 50
	BlurSigma       = 1
)

var ErrInvalidCrop = errors.New("imagecmd: crop region has no area")

// Crop is a region in source pixel coordinates.
type Crop struct {
	X1 int `json:"x1" validate:"min=0"`
	Y1 int `json:"y1" validate:"min=0"`
	X2 int `json:"x2" validate:"gtfield=X1"`
	Y2 int `json:"y2" validate:"gtfield=Y1"`
}

// Geometry renders the crop as WxH+X+Y.
func (c Crop) Geometry() string {
	return fmt.Sprintf("%dx%d+%d+%d", c.X2-c.X1, c.Y2-c.Y1, c.X1, c.Y1)
}

func (c Crop) valid() bool {
	return c.X1 >= 0 && c.Y1 >= 0 && c.X2 > c.X1 && c.Y2 > c.Y1
}

// Step is one primitive of a convert command line: an optional flag followed
// by its values. A step without a flag is a bare path.
type Step struct {
	Flag   string
	Values []string
}

func (s Step) args() []string {
	out := make([]string, 0, 1+len(s.Values))
	if s.Flag != "" {
		out = append(out, s.Flag)
	}
	return append(out, s.Values...)
}

func source(p string) Step               { return Step{Values: []string{p}} }
func destination(p string) Step          { return Step{Values: []string{p}} }
func flag(name string, v ...string) Step { return Step{Flag: name, Values: v} }
func repage() Step                       { return Step{Flag: "+repage"} }

// Compiler turns a size token and processing flags into an ImageMagick
// command. It holds no mutable state and is safe for concurrent use.
type Compiler struct {
	limits sizespec.Limits
}

func NewCompiler(limits sizespec.Limits) *Compiler {
	return &Compiler{limits: limits}
}

// InputPath is where the engine places the file produced by the node named inputTask.
func InputPath(inputTask graph.Name, inputFile string) string {
	return fmt.Sprintf("/input/%s/%s", inputTask, path.Base(inputFile))
}

// OutputPath is where the command writes its result.
func OutputPath(size, inputFile string) string {
	return fmt.Sprintf("/output/%s-%s", size, path.Base(inputFile))
}

// Plan returns the ordered steps for one variant.
func (c *Compiler) Plan(inputTask graph.Name, inputFile string, crop *Crop, size string, blur bool) ([]Step, error) {
	steps := []Step{
		source(InputPath(inputTask, inputFile)),
		flag("-auto-orient"),
		flag("-auto-level"),
		flag("-colorspace", Colorspace),
		flag("-strip"),
		flag("-interlace", Interlace),
		flag("-quality", strconv.Itoa(Quality)),
	}

	if crop != nil {
		if !crop.valid() {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidCrop, *crop)
		}
		steps = append(steps, flag("-crop", crop.Geometry()))
	}
	steps = append(steps, repage())

	scale, err := c.limits.Parse(size)
	if err != nil {
		return nil, err
	}
	if scale != nil {
		steps = append(steps, flag("-scale", scale.Geometry()), repage())
		if blur {
			steps = append(steps, blurSteps(*scale)...)
		}
	}

	return append(steps, destination(OutputPath(size, inputFile))), nil
}

// Compile renders Plan into the engine operation for the node.
func (c *Compiler) Compile(inputTask graph.Name, inputFile string, crop *Crop, size string, blur bool) (graph.ImageCommand, error) {
	steps, err := c.Plan(inputTask, inputFile, crop, size, blur)
	if err != nil {
		return graph.ImageCommand{}, err
	}
	return graph.ImageCommand{
		Input:         inputTask,
		EngineVersion: EngineVersion,
		Arguments:     Render(steps),
	}, nil
}

// Render flattens steps into the raw argument list. Quoting happens once,
// when the command line is serialised.
func Render(steps []Step) []string {
	var out []string
	for _, s := range steps {
		out = append(out, s.args()...)
	}
	return out
}

// blurSteps shrinks the image, then enlarges it back through a Gaussian filter.
func blurSteps(s sizespec.Scale) []Step {
	small := sizespec.Scale{
		Width:  shrink(s.Width),
		Height: shrink(s.Height),
	}
	return []Step{
		flag("-resize", small.Geometry()),
		flag("-filter", "Gaussian"),
		flag("-define", "filter:sigma="+strconv.Itoa(BlurSigma)),
		flag("-resize", s.Geometry()),
	}
}

func shrink(n int) int {
	if n == 0 {
		return 0
	}
	return max(n/BlurScaleFactor, 1)
}

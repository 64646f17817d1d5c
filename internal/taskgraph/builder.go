package taskgraph

import (
	"fmt"
	"strings"

	"github.com/fhuszti/medias-conversion-ms/internal/graph"
	"github.com/fhuszti/medias-conversion-ms/internal/imagecmd"
)

const (
	ImportNode           graph.Name = "import-from-s3"
	ConvertVideoNode     graph.Name = "convert-video-from-s3"
	ExportVideoNode      graph.Name = "export-video-to-s3"
	ExtractThumbnailNode graph.Name = "extract-thumbnail-from-video"
	ExportThumbnailNode  graph.Name = "export-thumbnail-to-s3"

	DefaultThumbnailFilename = "file.jpg"
)

// DefaultSizes is the size list used when a request does not name any.
var DefaultSizes = []string{
	"50x50", "60x60", "68x68", "80x80", "100x100", "200x200", "400x400", "500x500",
	"200xxx", "340xxx", "460xxx", "660xxx", "900xxx", "1200xxx", "xxx1080",
}

// VideoPolicy is applied to every transcoded video.
var VideoPolicy = graph.VideoConvert{
	OutputFormat:  "mp4",
	EngineVersion: "5.1.0",
	VideoCodec:    "x264",
	VSync:         0,
	FPS:           30,
	CRF:           23,
	Preset:        "slow",
	Profile:       "baseline",
	Level:         "1",
	Fit:           "scale",
	SubtitlesMode: "none",
	AudioCodec:    "aac",
	AudioBitrate:  128,
}

func ConvertImageNode(size string, blur bool) graph.Name {
	if blur {
		return graph.Name("convert-image-blur-" + size)
	}
	return graph.Name("convert-image-" + size)
}

func ExportImageNode(size string, blur bool) graph.Name {
	if blur {
		return graph.Name("export-images-to-s3-blur" + size)
	}
	return graph.Name("export-images-to-s3" + size)
}

// ExportImageKey is the object key a variant is exported to.
func ExportImageKey(dir, size string, blur bool) string {
	if blur {
		return fmt.Sprintf("%s/blur/%s.jpg", dir, size)
	}
	return fmt.Sprintf("%s/%s.jpg", dir, size)
}

// ThumbnailFilename is the last path segment of thumbnailFile, or
// DefaultThumbnailFilename when none is given.
func ThumbnailFilename(thumbnailFile string) string {
	if thumbnailFile == "" {
		return DefaultThumbnailFilename
	}
	parts := strings.Split(thumbnailFile, "/")
	return parts[len(parts)-1]
}

// Builder assembles conversion graphs. It only holds read-only configuration
// and may be shared between goroutines.
type Builder struct {
	storage  graph.S3
	compiler *imagecmd.Compiler
}

func NewBuilder(storage graph.S3, compiler *imagecmd.Compiler) *Builder {
	return &Builder{storage: storage, compiler: compiler}
}

// BuildImageGraph imports inputFile and exports a plain and a blurred variant
// per size under exportDir.
func (b *Builder) BuildImageGraph(inputFile, exportDir string, crop *imagecmd.Crop, sizes []string) (*graph.Graph, error) {
	g := graph.New()
	if err := g.Add(ImportNode, graph.ImportS3{Storage: b.storage, Key: inputFile}); err != nil {
		return nil, err
	}
	if err := b.addVariants(g, ImportNode, inputFile, exportDir, crop, sizes); err != nil {
		return nil, err
	}
	return g, nil
}

// BuildVideoGraph transcodes inputFile to exportFile, extracts a thumbnail to
// thumbnailFile and exports image variants of the thumbnail under exportDirImages.
func (b *Builder) BuildVideoGraph(inputFile, exportDirImages, exportFile, thumbnailFile string, sizes []string) (*graph.Graph, error) {
	thumbName := ThumbnailFilename(thumbnailFile)
	thumbKey := thumbnailFile
	if thumbKey == "" {
		thumbKey = thumbName
	}

	video := VideoPolicy
	video.Input = []graph.Name{ImportNode}

	g := graph.New()
	nodes := []graph.Node{
		{Name: ImportNode, Op: graph.ImportS3{Storage: b.storage, Key: inputFile}},
		{Name: ConvertVideoNode, Op: video},
		{Name: ExportVideoNode, Op: graph.ExportS3{Storage: b.storage, Key: exportFile, Input: ConvertVideoNode}},
		{Name: ExtractThumbnailNode, Op: graph.Thumbnail{
			Input:        []graph.Name{ConvertVideoNode},
			Filename:     thumbName,
			OutputFormat: "jpg",
		}},
		{Name: ExportThumbnailNode, Op: graph.ExportS3{Storage: b.storage, Key: thumbKey, Input: ExtractThumbnailNode}},
	}
	for _, n := range nodes {
		if err := g.Add(n.Name, n.Op); err != nil {
			return nil, err
		}
	}

	if err := b.addVariants(g, ExtractThumbnailNode, thumbName, exportDirImages, nil, sizes); err != nil {
		return nil, err
	}
	return g, nil
}

// addVariants adds, for each size in order, the blurred convert/export pair
// followed by the plain pair.
func (b *Builder) addVariants(g *graph.Graph, input graph.Name, inputFile, exportDir string, crop *imagecmd.Crop, sizes []string) error {
	for _, size := range sizes {
		for _, blur := range []bool{true, false} {
			op, err := b.compiler.Compile(input, inputFile, crop, size, blur)
			if err != nil {
				return fmt.Errorf("size %q: %w", size, err)
			}
			convert := ConvertImageNode(size, blur)
			if err := g.Add(convert, op); err != nil {
				return fmt.Errorf("size %q: %w", size, err)
			}
			export := graph.ExportS3{
				Storage: b.storage,
				Key:     ExportImageKey(exportDir, size, blur),
				Input:   convert,
			}
			if err := g.Add(ExportImageNode(size, blur), export); err != nil {
				return fmt.Errorf("size %q: %w", size, err)
			}
		}
	}
	return nil
}

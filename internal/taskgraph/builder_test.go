package taskgraph

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fhuszti/medias-conversion-ms/internal/graph"
	"github.com/fhuszti/medias-conversion-ms/internal/imagecmd"
	"github.com/fhuszti/medias-conversion-ms/internal/sizespec"
)

var testStorage = graph.S3{
	Bucket:          "media",
	Endpoint:        "https://s3.example.com",
	Region:          "eu-west-1",
	AccessKeyID:     "AKID",
	SecretAccessKey: "secret",
}

func newTestBuilder() *Builder {
	return NewBuilder(testStorage, imagecmd.NewCompiler(sizespec.DefaultLimits()))
}

func names(g *graph.Graph) []graph.Name {
	var out []graph.Name
	for _, n := range g.Nodes() {
		out = append(out, n.Name)
	}
	return out
}

func TestBuildImageGraph_SingleSize(t *testing.T) {
	g, err := newTestBuilder().BuildImageGraph("uploads/photo.png", "exports/photo", nil, []string{"100x100"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []graph.Name{
		"import-from-s3",
		"convert-image-blur-100x100",
		"export-images-to-s3-blur100x100",
		"convert-image-100x100",
		"export-images-to-s3100x100",
	}
	got := names(g)
	if len(got) != len(want) {
		t.Fatalf("nodes = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node[%d] = %q; want %q", i, got[i], want[i])
		}
	}
	if g.CountKind(graph.KindImport) != 1 || g.CountKind(graph.KindTransform) != 2 || g.CountKind(graph.KindExport) != 2 {
		t.Errorf("unexpected kind distribution in %v", got)
	}

	imp, _ := g.Node("import-from-s3")
	if imp.Op.(graph.ImportS3).Key != "uploads/photo.png" {
		t.Errorf("import key = %q", imp.Op.(graph.ImportS3).Key)
	}

	plain, _ := g.Node("export-images-to-s3100x100")
	if e := plain.Op.(graph.ExportS3); e.Input != "convert-image-100x100" || e.Key != "exports/photo/100x100.jpg" {
		t.Errorf("plain export = %+v", e)
	}
	blurred, _ := g.Node("export-images-to-s3-blur100x100")
	if e := blurred.Op.(graph.ExportS3); e.Input != "convert-image-blur-100x100" || e.Key != "exports/photo/blur/100x100.jpg" {
		t.Errorf("blurred export = %+v", e)
	}

	conv, _ := g.Node("convert-image-100x100")
	if c := conv.Op.(graph.ImageCommand); c.Input != ImportNode {
		t.Errorf("convert input = %q; want %q", c.Input, ImportNode)
	}
}

func TestBuildImageGraph_NoSizes(t *testing.T) {
	g, err := newTestBuilder().BuildImageGraph("photo.png", "exports", nil, []string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("Len = %d; want 1 (%v)", g.Len(), names(g))
	}
	if _, ok := g.Node(ImportNode); !ok {
		t.Error("import node missing")
	}
}

func TestBuildImageGraph_BlurBeforePlain(t *testing.T) {
	g, err := newTestBuilder().BuildImageGraph("photo.png", "exports", nil, DefaultSizes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() != 1+4*len(DefaultSizes) {
		t.Fatalf("Len = %d; want %d", g.Len(), 1+4*len(DefaultSizes))
	}

	pos := make(map[graph.Name]int)
	for i, n := range g.Nodes() {
		pos[n.Name] = i
	}
	prevPlain := 0
	for _, size := range DefaultSizes {
		blur, plain := pos[ConvertImageNode(size, true)], pos[ConvertImageNode(size, false)]
		if blur >= plain {
			t.Errorf("size %s: blurred node at %d, plain node at %d", size, blur, plain)
		}
		if blur < prevPlain {
			t.Errorf("size %s is out of request order", size)
		}
		prevPlain = plain
	}
}

func TestBuildImageGraph_Crop(t *testing.T) {
	crop := &imagecmd.Crop{X1: 0, Y1: 0, X2: 50, Y2: 60}
	g, err := newTestBuilder().BuildImageGraph("photo.png", "exports", crop, []string{"200x200"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, blur := range []bool{true, false} {
		n, _ := g.Node(ConvertImageNode("200x200", blur))
		if !contains(n.Op.(graph.ImageCommand).Arguments, "50x60+0+0") {
			t.Errorf("blur=%v: crop geometry missing from %v", blur, n.Op.(graph.ImageCommand).Arguments)
		}
	}
}

func TestBuildImageGraph_NestedInputKey(t *testing.T) {
	g, err := newTestBuilder().BuildImageGraph("uploads/2024/photo.png", "exports/photo", nil, []string{"100x100"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	imp, _ := g.Node(ImportNode)
	if key := imp.Op.(graph.ImportS3).Key; key != "uploads/2024/photo.png" {
		t.Errorf("import key = %q; want the full object key", key)
	}

	// engine paths only use the last segment of the key
	for _, blur := range []bool{false, true} {
		n, ok := g.Node(ConvertImageNode("100x100", blur))
		if !ok {
			t.Fatalf("blur=%v: convert node missing", blur)
		}
		args := n.Op.(graph.ImageCommand).Arguments
		if args[0] != "/input/import-from-s3/photo.png" {
			t.Errorf("blur=%v: source = %q", blur, args[0])
		}
		if last := args[len(args)-1]; last != "/output/100x100-photo.png" {
			t.Errorf("blur=%v: destination = %q", blur, last)
		}
	}
}

func TestBuildImageGraph_DuplicateSizes(t *testing.T) {
	g, err := newTestBuilder().BuildImageGraph("photo.png", "exports", nil, []string{"100x100", "200x200", "100x100"})
	if !errors.Is(err, graph.ErrNodeNameCollision) {
		t.Fatalf("expected ErrNodeNameCollision, got %v", err)
	}
	if g != nil {
		t.Errorf("expected no graph on error, got %d nodes", g.Len())
	}
}

func TestBuildImageGraph_BadSize(t *testing.T) {
	g, err := newTestBuilder().BuildImageGraph("photo.png", "exports", nil, []string{"100x100", "abcxxx"})
	if !errors.Is(err, sizespec.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
	if g != nil {
		t.Error("expected no graph on error")
	}
}

func TestBuildImageGraph_Deterministic(t *testing.T) {
	b := newTestBuilder()
	crop := &imagecmd.Crop{X1: 5, Y1: 5, X2: 500, Y2: 400}
	sizes := []string{"max900", "200xxx", "50x50"}

	g1, err := b.BuildImageGraph("photo.png", "exports", crop, sizes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g2, _ := b.BuildImageGraph("photo.png", "exports", crop, sizes)

	j1, _ := json.Marshal(g1)
	j2, _ := json.Marshal(g2)
	if !bytes.Equal(j1, j2) {
		t.Errorf("graphs differ:\n%s\n%s", j1, j2)
	}
	f1, _ := g1.Fingerprint()
	f2, _ := g2.Fingerprint()
	if f1 != f2 {
		t.Errorf("fingerprints differ: %s vs %s", f1, f2)
	}
}

func TestBuildVideoGraph(t *testing.T) {
	g, err := newTestBuilder().BuildVideoGraph("uploads/clip.mov", "exports/clip/images", "exports/clip/clip.mp4", "a/b/file.jpg", []string{"100x100"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []graph.Name{
		"import-from-s3",
		"convert-video-from-s3",
		"export-video-to-s3",
		"extract-thumbnail-from-video",
		"export-thumbnail-to-s3",
		"convert-image-blur-100x100",
		"export-images-to-s3-blur100x100",
		"convert-image-100x100",
		"export-images-to-s3100x100",
	}
	got := names(g)
	if len(got) != len(want) {
		t.Fatalf("nodes = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node[%d] = %q; want %q", i, got[i], want[i])
		}
	}

	v, _ := g.Node(ConvertVideoNode)
	video := v.Op.(graph.VideoConvert)
	if video.VideoCodec != "x264" || video.FPS != 30 || video.CRF != 23 || video.Preset != "slow" ||
		video.Profile != "baseline" || video.Level != "1" || video.Fit != "scale" || video.SubtitlesMode != "none" ||
		video.AudioCodec != "aac" || video.AudioBitrate != 128 || video.OutputFormat != "mp4" {
		t.Errorf("video policy not applied: %+v", video)
	}
	if len(video.Input) != 1 || video.Input[0] != ImportNode {
		t.Errorf("video input = %v", video.Input)
	}

	ev, _ := g.Node(ExportVideoNode)
	if e := ev.Op.(graph.ExportS3); e.Key != "exports/clip/clip.mp4" || e.Input != ConvertVideoNode {
		t.Errorf("video export = %+v", e)
	}

	th, _ := g.Node(ExtractThumbnailNode)
	if thumb := th.Op.(graph.Thumbnail); thumb.Filename != "file.jpg" || thumb.OutputFormat != "jpg" {
		t.Errorf("thumbnail = %+v", thumb)
	}
	et, _ := g.Node(ExportThumbnailNode)
	if e := et.Op.(graph.ExportS3); e.Key != "a/b/file.jpg" || e.Input != ExtractThumbnailNode {
		t.Errorf("thumbnail export = %+v", e)
	}

	conv, _ := g.Node(ConvertImageNode("100x100", false))
	cmd := conv.Op.(graph.ImageCommand)
	if cmd.Input != ExtractThumbnailNode {
		t.Errorf("variant input = %q; want %q", cmd.Input, ExtractThumbnailNode)
	}
	if cmd.Arguments[0] != "/input/extract-thumbnail-from-video/file.jpg" {
		t.Errorf("variant source = %q", cmd.Arguments[0])
	}
	ex, _ := g.Node(ExportImageNode("100x100", true))
	if e := ex.Op.(graph.ExportS3); e.Key != "exports/clip/images/blur/100x100.jpg" {
		t.Errorf("variant export key = %q", e.Key)
	}
}

func TestBuildVideoGraph_NoSizes(t *testing.T) {
	g, err := newTestBuilder().BuildVideoGraph("clip.mov", "images", "clip.mp4", "thumbs/cover.jpg", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() != 5 {
		t.Errorf("Len = %d; want 5 (%v)", g.Len(), names(g))
	}
}

func TestBuildVideoGraph_DefaultThumbnail(t *testing.T) {
	g, err := newTestBuilder().BuildVideoGraph("clip.mov", "images", "clip.mp4", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	th, _ := g.Node(ExtractThumbnailNode)
	if got := th.Op.(graph.Thumbnail).Filename; got != DefaultThumbnailFilename {
		t.Errorf("filename = %q; want %q", got, DefaultThumbnailFilename)
	}
	et, _ := g.Node(ExportThumbnailNode)
	if got := et.Op.(graph.ExportS3).Key; got != DefaultThumbnailFilename {
		t.Errorf("export key = %q; want %q", got, DefaultThumbnailFilename)
	}
}

func TestThumbnailFilename(t *testing.T) {
	tests := map[string]string{
		"a/b/file.jpg":  "file.jpg",
		"cover.jpg":     "cover.jpg",
		"/x/y/z/t.jpeg": "t.jpeg",
		"":              "file.jpg",
	}
	for in, want := range tests {
		if got := ThumbnailFilename(in); got != want {
			t.Errorf("ThumbnailFilename(%q) = %q; want %q", in, got, want)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

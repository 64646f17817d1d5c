package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fhuszti/medias-conversion-ms/internal/cloudconvert"
	"github.com/fhuszti/medias-conversion-ms/internal/config"
	"github.com/fhuszti/medias-conversion-ms/internal/graph"
	"github.com/fhuszti/medias-conversion-ms/internal/imagecmd"
	"github.com/fhuszti/medias-conversion-ms/internal/sizespec"
	"github.com/fhuszti/medias-conversion-ms/internal/taskgraph"
	"github.com/spf13/cobra"
)

const redacted = "********"

var (
	graphSizes         []string
	graphCrop          string
	graphThumbnailFile string
	graphSubmit        bool
	graphShowSecrets   bool
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build a conversion graph and print its create-job payload",
}

var graphImagesCmd = &cobra.Command{
	Use:   "images <input_file> <export_dir>",
	Short: "Build the graph for an image conversion",
	Args:  cobra.ExactArgs(2),
	RunE:  runGraphImages,
}

var graphVideoCmd = &cobra.Command{
	Use:   "video <input_file> <export_dir_images> <export_file>",
	Short: "Build the graph for a video conversion",
	Args:  cobra.ExactArgs(3),
	RunE:  runGraphVideo,
}

func init() {
	graphCmd.PersistentFlags().StringSliceVar(&graphSizes, "sizes", nil, "size tokens (defaults to IMAGES_SIZES or the built-in list)")
	graphCmd.PersistentFlags().BoolVar(&graphSubmit, "submit", false, "submit the job and wait for it to finish")
	graphCmd.PersistentFlags().BoolVar(&graphShowSecrets, "show-secrets", false, "print storage credentials unmasked")
	graphImagesCmd.Flags().StringVar(&graphCrop, "crop", "", "crop region as x1,y1,x2,y2")
	graphVideoCmd.Flags().StringVar(&graphThumbnailFile, "thumbnail-file", "", "object key of the extracted thumbnail")

	graphCmd.AddCommand(graphImagesCmd, graphVideoCmd)
	rootCmd.AddCommand(graphCmd)
}

func runGraphImages(cmd *cobra.Command, args []string) error {
	crop, err := parseCrop(graphCrop)
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	g, err := newBuilder(cfg).BuildImageGraph(args[0], args[1], crop, sizesFor(cmd, cfg))
	if err != nil {
		return fmt.Errorf("build image graph: %w", err)
	}
	return emit(cmd, cfg, g)
}

func runGraphVideo(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	g, err := newBuilder(cfg).BuildVideoGraph(args[0], args[1], args[2], graphThumbnailFile, sizesFor(cmd, cfg))
	if err != nil {
		return fmt.Errorf("build video graph: %w", err)
	}
	return emit(cmd, cfg, g)
}

func newBuilder(cfg *config.Settings) *taskgraph.Builder {
	s3 := graph.S3{
		Bucket:          cfg.S3.Bucket,
		Endpoint:        cfg.S3.Endpoint,
		Region:          cfg.S3.Region,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	}
	if !graphSubmit && !graphShowSecrets {
		s3.SecretAccessKey = redacted
	}
	limits := sizespec.Limits{MaxWidth: cfg.MaxWidth, MaxHeight: cfg.MaxHeight}
	return taskgraph.NewBuilder(s3, imagecmd.NewCompiler(limits))
}

// sizesFor returns the --sizes flag when given, even if empty, and the
// configured defaults otherwise.
func sizesFor(cmd *cobra.Command, cfg *config.Settings) []string {
	if cmd.Flags().Changed("sizes") {
		if graphSizes == nil {
			return []string{}
		}
		return graphSizes
	}
	if cfg.ImagesSizes != nil {
		return cfg.ImagesSizes
	}
	return taskgraph.DefaultSizes
}

func emit(cmd *cobra.Command, cfg *config.Settings, g *graph.Graph) error {
	out := cmd.OutOrStdout()
	logVerbose("graph has %d nodes (%d imports, %d transforms, %d exports)",
		g.Len(), g.CountKind(graph.KindImport), g.CountKind(graph.KindTransform), g.CountKind(graph.KindExport))

	if !graphSubmit {
		_, body, err := cloudconvert.JobPayload(g)
		if err != nil {
			return err
		}
		return writeIndented(out, body)
	}

	client := cloudconvert.New(cloudconvert.Options{
		APIKey:       cfg.CloudConvertAPIKey,
		Sandbox:      cfg.CloudConvertSandbox,
		PollInterval: cfg.CloudConvertPollInterval,
	})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	h, err := client.Submit(ctx, g)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  ✓ Submitted job %s (tag %s)\n", h.ID, h.Tag)

	res, err := client.Wait(ctx, h)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  ✓ Job %s %s\n", res.ID, res.Status)
	return nil
}

func writeIndented(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

// parseCrop reads "x1,y1,x2,y2". An empty string means no crop.
func parseCrop(raw string) (*imagecmd.Crop, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("crop %q: expected x1,y1,x2,y2", raw)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("crop %q: %w", raw, err)
		}
		v[i] = n
	}
	return &imagecmd.Crop{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

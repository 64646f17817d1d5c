package graph

import (
	"encoding/json"

	"github.com/kballard/go-shellquote"
)

// S3 holds the object store coordinates the remote engine uses to import and
// export files.
type S3 struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// ImportS3 fetches Key from the object store.
type ImportS3 struct {
	Storage S3
	Key     string
}

func (ImportS3) Kind() Kind     { return KindImport }
func (ImportS3) Inputs() []Name { return nil }
func (ImportS3) operation()     {}

func (o ImportS3) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operation       string `json:"operation"`
		Bucket          string `json:"bucket"`
		Endpoint        string `json:"endpoint"`
		Region          string `json:"region"`
		AccessKeyID     string `json:"access_key_id"`
		SecretAccessKey string `json:"secret_access_key"`
		Key             string `json:"key"`
	}{
		Operation:       "import/s3",
		Bucket:          o.Storage.Bucket,
		Endpoint:        o.Storage.Endpoint,
		Region:          o.Storage.Region,
		AccessKeyID:     o.Storage.AccessKeyID,
		SecretAccessKey: o.Storage.SecretAccessKey,
		Key:             o.Key,
	})
}

// ExportS3 uploads the output of Input to Key.
type ExportS3 struct {
	Storage S3
	Key     string
	Input   Name
}

func (ExportS3) Kind() Kind       { return KindExport }
func (o ExportS3) Inputs() []Name { return []Name{o.Input} }
func (ExportS3) operation()       {}

func (o ExportS3) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operation       string `json:"operation"`
		Bucket          string `json:"bucket"`
		Endpoint        string `json:"endpoint"`
		Region          string `json:"region"`
		AccessKeyID     string `json:"access_key_id"`
		SecretAccessKey string `json:"secret_access_key"`
		Key             string `json:"key"`
		Input           Name   `json:"input"`
	}{
		Operation:       "export/s3",
		Bucket:          o.Storage.Bucket,
		Endpoint:        o.Storage.Endpoint,
		Region:          o.Storage.Region,
		AccessKeyID:     o.Storage.AccessKeyID,
		SecretAccessKey: o.Storage.SecretAccessKey,
		Key:             o.Key,
		Input:           o.Input,
	})
}

// ImageCommand runs an ImageMagick convert command against Input.
type ImageCommand struct {
	Input         Name
	EngineVersion string
	Arguments     []string
}

func (ImageCommand) Kind() Kind       { return KindTransform }
func (o ImageCommand) Inputs() []Name { return []Name{o.Input} }
func (ImageCommand) operation()       {}

// CommandLine joins the shell-quoted arguments the way the engine receives them.
func (o ImageCommand) CommandLine() string {
	return shellquote.Join(o.Arguments...)
}

func (o ImageCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operation     string `json:"operation"`
		Engine        string `json:"engine"`
		EngineVersion string `json:"engine_version"`
		Input         Name   `json:"input"`
		Command       string `json:"command"`
		Arguments     string `json:"arguments"`
		CaptureOutput bool   `json:"capture_output"`
	}{
		Operation:     "command",
		Engine:        "imagemagick",
		EngineVersion: o.EngineVersion,
		Input:         o.Input,
		Command:       "convert",
		Arguments:     o.CommandLine(),
		CaptureOutput: true,
	})
}

// VideoConvert transcodes Input with ffmpeg.
type VideoConvert struct {
	Input         []Name
	OutputFormat  string
	EngineVersion string
	VideoCodec    string
	VSync         int
	FPS           int
	CRF           int
	Preset        string
	Profile       string
	Level         string
	Fit           string
	SubtitlesMode string
	AudioCodec    string
	AudioBitrate  int
}

func (VideoConvert) Kind() Kind       { return KindTransform }
func (o VideoConvert) Inputs() []Name { return o.Input }
func (VideoConvert) operation()       {}

func (o VideoConvert) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operation     string `json:"operation"`
		OutputFormat  string `json:"output_format"`
		Engine        string `json:"engine"`
		Input         []Name `json:"input"`
		VideoCodec    string `json:"video_codec"`
		VSync         int    `json:"vsync"`
		FPS           int    `json:"fps"`
		CRF           int    `json:"crf"`
		Preset        string `json:"preset"`
		Profile       string `json:"profile"`
		Level         string `json:"level"`
		Fit           string `json:"fit"`
		SubtitlesMode string `json:"subtitles_mode"`
		AudioCodec    string `json:"audio_codec"`
		AudioBitrate  int    `json:"audio_bitrate"`
		EngineVersion string `json:"engine_version"`
	}{
		Operation:     "convert",
		OutputFormat:  o.OutputFormat,
		Engine:        "ffmpeg",
		Input:         o.Input,
		VideoCodec:    o.VideoCodec,
		VSync:         o.VSync,
		FPS:           o.FPS,
		CRF:           o.CRF,
		Preset:        o.Preset,
		Profile:       o.Profile,
		Level:         o.Level,
		Fit:           o.Fit,
		SubtitlesMode: o.SubtitlesMode,
		AudioCodec:    o.AudioCodec,
		AudioBitrate:  o.AudioBitrate,
		EngineVersion: o.EngineVersion,
	})
}

// Thumbnail extracts a still frame from Input.
type Thumbnail struct {
	Input        []Name
	Filename     string
	OutputFormat string
}

func (Thumbnail) Kind() Kind       { return KindTransform }
func (o Thumbnail) Inputs() []Name { return o.Input }
func (Thumbnail) operation()       {}

func (o Thumbnail) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operation    string `json:"operation"`
		Input        []Name `json:"input"`
		Filename     string `json:"filename"`
		OutputFormat string `json:"output_format"`
	}{
		Operation:    "thumbnail",
		Input:        o.Input,
		Filename:     o.Filename,
		OutputFormat: o.OutputFormat,
	})
}

package metadata

import (
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ffprobeOutput is the subset of ffprobe's JSON output the extractor
// consumes.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecName    string            `json:"codec_name"`
	CodecType    string            `json:"codec_type"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	AvgFrameRate string            `json:"avg_frame_rate"`
	SampleRate   string            `json:"sample_rate"`
	Channels     int               `json:"channels"`
	BitRate      string            `json:"bit_rate"`
	Tags         map[string]string `json:"tags"`
}

// VideoMetadata holds container-level info for one video file.
type VideoMetadata struct {
	Title       string
	Duration    int
	Width       int
	Height      int
	FrameRate   float64
	Codec       string
	Format      string
	AudioTracks []string
}

type audioInfo struct {
	Duration   int
	Bitrate    int
	SampleRate int
	Channels   int
	Codec      string
}

func runFFProbe(path string) (*ffprobeOutput, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &probe, nil
}

// ExtractVideo opens the container, locates the first video stream and
// every audio stream, and normalizes the container duration to whole
// seconds. The returned metadata is always usable; a non-nil error marks
// it as degraded (no stream info) and must never abort a batch scan.
func ExtractVideo(path string) (*VideoMetadata, error) {
	meta := &VideoMetadata{
		Title:  stem(path),
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Codec:  "unknown",
	}

	probe, err := runFFProbe(path)
	if err != nil {
		return meta, err
	}
	meta.Duration = parseSeconds(probe.Format.Duration)

	foundVideo := false
	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if foundVideo {
				continue
			}
			foundVideo = true
			meta.Width = stream.Width
			meta.Height = stream.Height
			meta.Codec = stream.CodecName
			meta.FrameRate = parseFrameRate(stream.AvgFrameRate)
		case "audio":
			language := stream.Tags["language"]
			if language == "" {
				language = "und"
			}
			meta.AudioTracks = append(meta.AudioTracks, language)
		}
	}

	if !foundVideo {
		return meta, fmt.Errorf("no video stream found in %s", path)
	}
	return meta, nil
}

func probeAudio(path string) (*audioInfo, error) {
	probe, err := runFFProbe(path)
	if err != nil {
		return nil, err
	}

	info := &audioInfo{Duration: parseSeconds(probe.Format.Duration)}
	if bitrate, err := strconv.Atoi(probe.Format.BitRate); err == nil {
		info.Bitrate = bitrate
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		info.Codec = stream.CodecName
		info.Channels = stream.Channels
		if rate, err := strconv.Atoi(stream.SampleRate); err == nil {
			info.SampleRate = rate
		}
		if bitrate, err := strconv.Atoi(stream.BitRate); err == nil && bitrate > 0 {
			info.Bitrate = bitrate
		}
		break
	}
	return info, nil
}

// parseSeconds normalizes a fractional-seconds duration string to whole
// seconds.
func parseSeconds(raw string) int {
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return int(math.Floor(seconds))
}

// parseFrameRate converts ffprobe's "num/den" rational to a float.
func parseFrameRate(raw string) float64 {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}

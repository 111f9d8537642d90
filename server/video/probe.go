package video

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// streamInfo is the subset of ffprobe's stream JSON that we care about.
type streamInfo struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"` // rational, eg "30000/1001"
	NbFrames     string `json:"nb_frames"`      // may be absent or "N/A"
	Duration     string `json:"duration"`       // seconds, as a string
}

type probeOutput struct {
	Streams []streamInfo `json:"streams"`
}

// probeVideo asks ffprobe for the metadata of the first video stream.
func probeVideo(path string) (*streamInfo, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate,nb_frames,duration",
		"-of", "json",
		path).Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed on '%v': %w", path, err)
	}
	return parseProbeOutput(out)
}

func parseProbeOutput(raw []byte) (*streamInfo, error) {
	probe := probeOutput{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("Failed to parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("No video stream found")
	}
	info := probe.Streams[0]
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("Invalid video dimensions %vx%v", info.Width, info.Height)
	}
	return &info, nil
}

// parseRational parses an ffprobe rational such as "30000/1001".
// Returns 0 for malformed or zero-denominator values.
func parseRational(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	if !found {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// frameCount returns the container's frame count, or a duration-based
// estimate when the container doesn't record one.
func (s *streamInfo) frameCount(frameRate float64) int {
	if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
		return n
	}
	if dur, err := strconv.ParseFloat(s.Duration, 64); err == nil && dur > 0 && frameRate > 0 {
		return int(dur * frameRate)
	}
	return 0
}

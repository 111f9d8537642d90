// Package video is the frame-decode capability boundary. It exposes an
// uploaded video container as a sequence of RGB frames with container
// timestamps, decoding via an ffmpeg child process.
package video

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/logs"
)

// FrameSource reads sequential frames out of one video.
// Implementations are owned by a single pipeline run and are not safe for
// concurrent use.
type FrameSource interface {
	FrameRate() float64
	FrameCount() int
	// NextFrame returns the next decoded frame. ok is false exactly once, at
	// end of stream; callers must stop after that. A decode failure
	// mid-stream is indistinguishable from end of stream.
	NextFrame() (img *cimg.Image, ok bool)
	// CurrentTimestamp is the presentation time in seconds of the last frame
	// returned by NextFrame, taken from the container clock rather than
	// recomputed from the frame index.
	CurrentTimestamp() float64
	// Close releases the decoder. Must be called exactly once per source.
	Close()
}

// OpenFunc opens a FrameSource on a video file. The pipeline takes an
// OpenFunc so that tests can substitute fabricated sources.
type OpenFunc func(path string) (FrameSource, error)

// showinfo emits one log line per frame on stderr; we want its pts_time.
var ptsTimeRegex = regexp.MustCompile(`pts_time:([0-9]+(?:\.[0-9]+)?)`)

// How long we'll wait for the showinfo line of a frame whose pixels we have
// already read, before falling back to index/fps.
const ptsWaitTimeout = 2 * time.Second

// FileSource decodes a video file with an ffmpeg child process.
// Frames arrive as raw RGB24 on the child's stdout. RGB is not incidental:
// it is the channel order the detection capability is contractually given.
// Per-frame container timestamps arrive via the showinfo filter on stderr.
type FileSource struct {
	log        logs.Log
	cmd        *exec.Cmd
	stdout     io.ReadCloser
	width      int
	height     int
	frameRate  float64
	frameCount int
	frameIndex int // 0-based index of the last frame returned
	timestamp  float64
	pts        chan float64
	quit       chan struct{}
	closed     bool
}

// Open probes the file and starts the decoder.
func Open(log logs.Log, path string) (*FileSource, error) {
	info, err := probeVideo(path)
	if err != nil {
		return nil, fmt.Errorf("Unreadable video '%v': %w", path, err)
	}
	frameRate := parseRational(info.AvgFrameRate)

	cmd := exec.Command("ffmpeg",
		"-v", "info",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-vf", "showinfo",
		"pipe:1")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("Unreadable video '%v': failed to start decoder: %w", path, err)
	}

	s := &FileSource{
		log:        log,
		cmd:        cmd,
		stdout:     stdout,
		width:      info.Width,
		height:     info.Height,
		frameRate:  frameRate,
		frameCount: info.frameCount(frameRate),
		frameIndex: -1,
		pts:        make(chan float64, 64),
		quit:       make(chan struct{}),
	}
	go s.scanTimestamps(stderr)
	return s, nil
}

func (s *FileSource) FrameRate() float64 {
	return s.frameRate
}

func (s *FileSource) FrameCount() int {
	return s.frameCount
}

func (s *FileSource) NextFrame() (*cimg.Image, bool) {
	buf := make([]byte, s.width*s.height*3)
	if _, err := io.ReadFull(s.stdout, buf); err != nil {
		// A short read here is either the end of the container or a decode
		// failure mid-stream. We cannot tell them apart, and both end the
		// stream.
		return nil, false
	}
	s.frameIndex++
	select {
	case pts, ok := <-s.pts:
		if ok {
			s.timestamp = pts
		}
	case <-time.After(ptsWaitTimeout):
		// showinfo line went missing; degrade to index-derived time
		if s.frameRate > 0 {
			s.timestamp = float64(s.frameIndex) / s.frameRate
		}
	}
	return cimg.WrapImage(s.width, s.height, cimg.PixelFormatRGB, buf), true
}

func (s *FileSource) CurrentTimestamp() float64 {
	return s.timestamp
}

func (s *FileSource) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.quit)
	s.stdout.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
}

// scanTimestamps reads ffmpeg's stderr and forwards each frame's pts_time.
// ffmpeg runs the showinfo filter before the rawvideo muxer, so the pts line
// of frame N is written before frame N's pixels appear on stdout.
func (s *FileSource) scanTimestamps(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := ptsTimeRegex.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		pts, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		select {
		case s.pts <- pts:
		case <-s.quit:
			return
		}
	}
	close(s.pts)
}

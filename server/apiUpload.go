package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/buscount/buscount/pkg/www"
)

// httpVideoFeed accepts a video upload and starts a processing run.
// The response is sent as soon as the file is saved; processing happens on
// its own goroutine, and the client discovers results by polling /get_frames.
func (s *Server) httpVideoFeed(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("video")
	if err != nil {
		// A missing field is reported in the body, not the status code
		www.SendJSON(w, map[string]string{"error": "No video file in the request"})
		return
	}
	defer file.Close()

	workDir, err := s.WorkDirs.New()
	www.Check(err)
	videoPath := filepath.Join(workDir, "uploaded_video.mp4")
	if err := saveUpload(file, videoPath); err != nil {
		os.RemoveAll(workDir)
		www.Check(err)
	}

	// Fire and forget. The run owns workDir from here on, and removes it when
	// it ends, no matter how it ends.
	go s.Pipeline.Run(videoPath, workDir)

	www.SendJSON(w, map[string]string{"output": "Video uploaded"})
}

func saveUpload(src io.Reader, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	return err
}

package server

import (
	"time"

	"github.com/buscount/buscount/server/config"
	"github.com/buscount/buscount/server/detect"
	"github.com/buscount/buscount/server/framedb"
	"github.com/buscount/buscount/server/pipeline"
	"github.com/buscount/buscount/server/util"
	"github.com/buscount/buscount/server/video"
	"github.com/cyclopcam/logs"
)

type Server struct {
	Log      logs.Log
	DB       *framedb.FrameDB
	Detector detect.Detector
	WorkDirs *util.WorkDirs
	Pipeline *pipeline.Pipeline
}

// NewServer assembles the production dependency graph from config.
func NewServer(log logs.Log, cfg *config.Config) (*Server, error) {
	db, err := framedb.NewFrameDB(log, cfg.DB, 0)
	if err != nil {
		return nil, err
	}
	workDirs, err := util.NewWorkDirs(cfg.MediaPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	detector := detect.NewClient(log, cfg.DetectorURL, cfg.DetectorConfidence, cfg.DetectorNmsIou,
		time.Duration(cfg.DetectorTimeoutMS)*time.Millisecond)
	open := func(path string) (video.FrameSource, error) {
		return video.Open(log, path)
	}
	return &Server{
		Log:      log,
		DB:       db,
		Detector: detector,
		WorkDirs: workDirs,
		Pipeline: pipeline.NewPipeline(log, db, detector, open, cfg.TargetRateHz),
	}, nil
}

func (s *Server) Close() {
	s.Detector.Close()
	s.DB.Close()
}

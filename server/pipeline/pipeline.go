// Package pipeline processes one uploaded video at a time: decode frames,
// sample them at a fixed rate, detect faces, annotate, encode, and persist.
// It runs entirely off the HTTP request path.
package pipeline

import (
	"os"

	"github.com/buscount/buscount/server/annotate"
	"github.com/buscount/buscount/server/detect"
	"github.com/buscount/buscount/server/framedb"
	"github.com/buscount/buscount/server/video"
	"github.com/cyclopcam/logs"
)

// Pipeline holds the dependencies shared by all runs. All of them are
// injected, so tests can run the pipeline against fabricated sources and
// detectors.
type Pipeline struct {
	log          logs.Log
	db           *framedb.FrameDB
	detector     detect.Detector
	open         video.OpenFunc
	targetRateHz float64
}

func NewPipeline(log logs.Log, db *framedb.FrameDB, detector detect.Detector, open video.OpenFunc, targetRateHz float64) *Pipeline {
	if targetRateHz <= 0 {
		targetRateHz = DefaultTargetRateHz
	}
	return &Pipeline{
		log:          log,
		db:           db,
		detector:     detector,
		open:         open,
		targetRateHz: targetRateHz,
	}
}

// Run processes one uploaded video to completion. It is blocking; the upload
// handler launches it on its own goroutine.
//
// A run moves through four phases: open the source, stream frames, drain
// (release the decoder), close (remove the working directory). Drain and
// close are deferred, so they execute exactly once on every exit path,
// including a fatal store error. A failure on a single frame never ends the
// run; only an unreadable video or a store failure does.
func (p *Pipeline) Run(videoPath, workDir string) {
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			p.log.Errorf("Failed to remove working directory '%v': %v", workDir, err)
		}
	}()

	src, err := p.open(videoPath)
	if err != nil {
		p.log.Errorf("Unreadable video '%v': %v", videoPath, err)
		return
	}
	defer src.Close()

	interval := SamplingInterval(src.FrameRate(), p.targetRateHz)
	p.log.Infof("Processing '%v': %.3f fps, ~%v frames, sampling every %v frames",
		videoPath, src.FrameRate(), src.FrameCount(), interval)

	nRecords := 0
	nSkipped := 0
	frameIndex := 0
	for ; ; frameIndex++ {
		img, ok := src.NextFrame()
		if !ok {
			break
		}
		if !Selected(frameIndex, interval) {
			continue
		}

		dets, err := p.detector.DetectFaces(img)
		if err != nil {
			p.log.Warnf("Skipping frame %v: detection failed: %v", frameIndex, err)
			nSkipped++
			continue
		}
		annotate.DrawBoxes(img, dets)

		encoded, err := EncodeFrame(img)
		if err != nil {
			p.log.Warnf("Skipping frame %v: %v", frameIndex, err)
			nSkipped++
			continue
		}

		rec := &framedb.FrameRecord{
			FrameData:     string(encoded),
			CountOfPeople: len(dets),
			Timestamp:     src.CurrentTimestamp(),
		}
		if err := p.db.AddFrame(rec); err != nil {
			// Without durability we can't make progress. Records committed so
			// far remain valid; the deferred cleanup still runs.
			p.log.Errorf("Aborting run on '%v': %v", videoPath, err)
			return
		}
		nRecords++
	}

	p.log.Infof("Finished '%v': %v frames read, %v records written, %v frames skipped", videoPath, frameIndex, nRecords, nSkipped)
}

package video

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleProbeJSON = `{
    "programs": [],
    "streams": [
        {
            "width": 1280,
            "height": 720,
            "avg_frame_rate": "30000/1001",
            "duration": "10.427083",
            "nb_frames": "312"
        }
    ]
}`

func TestParseProbeOutput(t *testing.T) {
	info, err := parseProbeOutput([]byte(sampleProbeJSON))
	require.NoError(t, err)
	require.Equal(t, 1280, info.Width)
	require.Equal(t, 720, info.Height)
	require.InDelta(t, 29.97, parseRational(info.AvgFrameRate), 0.001)
	require.Equal(t, 312, info.frameCount(parseRational(info.AvgFrameRate)))
}

func TestParseProbeOutputBad(t *testing.T) {
	_, err := parseProbeOutput([]byte(`{"streams":[]}`))
	require.Error(t, err)

	_, err = parseProbeOutput([]byte(`{"streams":[{"width":0,"height":720}]}`))
	require.Error(t, err)

	_, err = parseProbeOutput([]byte(`not json`))
	require.Error(t, err)
}

func TestParseRational(t *testing.T) {
	require.InDelta(t, 25.0, parseRational("25/1"), 1e-9)
	require.InDelta(t, 29.97, parseRational("30000/1001"), 0.001)
	require.InDelta(t, 30.0, parseRational("30"), 1e-9)
	require.Equal(t, 0.0, parseRational("0/0"))
	require.Equal(t, 0.0, parseRational("abc/def"))
	require.Equal(t, 0.0, parseRational(""))
}

func TestFrameCountFallback(t *testing.T) {
	// No nb_frames: estimate from duration and frame rate
	info := &streamInfo{NbFrames: "N/A", Duration: "10.0"}
	require.Equal(t, 300, info.frameCount(30))

	// Neither: unknown
	info = &streamInfo{}
	require.Equal(t, 0, info.frameCount(30))
}

func TestPtsTimeRegex(t *testing.T) {
	line := `[Parsed_showinfo_0 @ 0x558d4a2b4c80] n:   1 pts:    512 pts_time:0.0333333 duration:    512 duration_time:0.0333333 fmt:yuv420p`
	m := ptsTimeRegex.FindStringSubmatch(line)
	require.NotNil(t, m)
	require.Equal(t, "0.0333333", m[1])

	require.Nil(t, ptsTimeRegex.FindStringSubmatch("frame=  312 fps=0.0 q=-0.0 size=  874800KiB"))
}

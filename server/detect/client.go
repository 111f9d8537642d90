package detect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bmharper/cimg/v2"
	"github.com/buscount/buscount/pkg/www"
	"github.com/cyclopcam/logs"
)

// Client talks to a face-detection service over HTTP.
// The service contract is: POST raw RGB24 pixels, receive every candidate box
// the model produced. Confidence filtering and overlap suppression happen on
// our side, using thresholds fixed at deployment time.
type Client struct {
	log                 logs.Log
	url                 string
	confidenceThreshold float32
	nmsIouThreshold     float32
	client              *http.Client
}

type detectResponse struct {
	Detections []Detection `json:"detections"`
}

// NewClient creates a detection client.
// confidenceThreshold or nmsIouThreshold of 0 pick the defaults.
func NewClient(log logs.Log, url string, confidenceThreshold, nmsIouThreshold float32, timeout time.Duration) *Client {
	if confidenceThreshold == 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}
	if nmsIouThreshold == 0 {
		nmsIouThreshold = DefaultNmsIouThreshold
	}
	return &Client{
		log:                 log,
		url:                 url,
		confidenceThreshold: confidenceThreshold,
		nmsIouThreshold:     nmsIouThreshold,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) DetectFaces(img *cimg.Image) ([]Detection, error) {
	// The service is contractually given RGB-ordered pixels. Sending another
	// channel order would not fail, it would silently degrade detections.
	if img.Format != cimg.PixelFormatRGB {
		return nil, fmt.Errorf("Detection service requires RGB pixels, have format %v", img.Format)
	}

	req, err := http.NewRequest("POST", c.url+"/api/detect", bytes.NewReader(img.Pixels))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Image-Width", strconv.Itoa(img.Width))
	req.Header.Set("X-Image-Height", strconv.Itoa(img.Height))
	resp, err := c.client.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Detection request failed: %v", www.FailedRequestSummary(resp, err))
	}
	defer resp.Body.Close()

	result := detectResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("Failed to decode detection response: %w", err)
	}

	kept := make([]Detection, 0, len(result.Detections))
	for _, d := range result.Detections {
		if d.Confidence >= c.confidenceThreshold {
			kept = append(kept, d)
		}
	}
	return suppressOverlapping(kept, c.nmsIouThreshold), nil
}

func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/buscount/buscount/pkg/www"
	"github.com/go-chi/httprate"
	"github.com/julienschmidt/httprouter"
)

// SetupRouter builds the HTTP route table. It is separate from
// ListenAndServe so tests can drive the router directly.
func (s *Server) SetupRouter() *httprouter.Router {
	router := httprouter.New()

	// Uploads are heavyweight, so throttle them per client IP.
	uploadLimit := httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))

	www.Handle(s.Log, router, "GET", "/", s.httpIndex)
	www.Handle(s.Log, router, "GET", "/get_frames", s.httpGetFrames)
	www.Handle(s.Log, router, "POST", "/video_feed", func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		uploadLimit(http.HandlerFunc(s.httpVideoFeed)).ServeHTTP(w, r)
	})

	return router
}

func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%v", port)
	s.Log.Infof("Listening on %v", addr)
	return http.ListenAndServe(addr, s.SetupRouter())
}

package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/buscount/buscount/pkg/www"
	"github.com/buscount/buscount/server/framedb"
	"github.com/julienschmidt/httprouter"
)

func (s *Server) httpIndex(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	www.SendJSON(w, map[string]string{"message": "Welcome to Bus Passenger Counter!"})
}

// httpGetFrames returns stored frame records. With a page parameter it
// returns one page of framedb.PageSize records; without one it returns
// everything, oldest first.
func (s *Server) httpGetFrames(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	pageStr, hasPage := www.QueryValueEx(r, "page")
	if !hasPage {
		recs, err := s.DB.AllFrames()
		www.Check(err)
		www.SendJSON(w, recs)
		return
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil {
		www.Panic(http.StatusBadRequest, framedb.ErrInvalidPage.Error())
	}
	recs, err := s.DB.Frames(page)
	if errors.Is(err, framedb.ErrInvalidPage) {
		www.Panic(http.StatusBadRequest, err.Error())
	} else if errors.Is(err, framedb.ErrNoRecordsForPage) {
		www.Panic(http.StatusNotFound, err.Error())
	}
	www.Check(err)
	www.SendJSON(w, recs)
}

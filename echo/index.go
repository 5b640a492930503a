package echo

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sitechat/sitechat"
)

// DefaultBuildTimeout bounds one background index build.
const DefaultBuildTimeout = 10 * time.Minute

type indexRequest struct {
	Force bool `json:"force"`
}

type indexStatusResponse struct {
	Domain   string              `json:"domain"`
	State    string              `json:"state"`
	Indexing bool                `json:"indexing"`
	Error    string              `json:"error,omitempty"`
	Meta     *sitechat.IndexMeta `json:"meta,omitempty"`
}

// handleIndexBuild starts a rebuild in the background and reports the
// build state. A running build wins; the request gets ECONFLICT.
func (s *Server) handleIndexBuild(c echo.Context) error {
	var req indexRequest
	if err := c.Bind(&req); err != nil {
		return sitechat.Errorf(sitechat.EINVALID, "invalid request body")
	}

	if !s.Status.Begin(s.Domain) {
		return sitechat.Errorf(sitechat.ECONFLICT, "an index build is already running for %s", s.Domain)
	}

	go s.runBuild(req.Force)

	return c.JSON(http.StatusAccepted, s.statusResponse(c.Request().Context()))
}

// runBuild executes one build outside the request lifecycle. The
// request context would be canceled as soon as the response is sent.
func (s *Server) runBuild(force bool) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultBuildTimeout)
	defer cancel()

	meta, _, err := s.Builder.Ensure(ctx, s.Domain, s.SiteName, force)
	s.Status.Finish(s.Domain, meta, err)
	if err != nil {
		s.logger.Error("index build failed", "domain", s.Domain, "err", err)
		return
	}
	s.logger.Info("index build finished",
		"domain", s.Domain,
		"pages", meta.PageCount,
		"chunks", meta.ChunkCount,
	)
}

func (s *Server) handleIndexStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.statusResponse(c.Request().Context()))
}

// statusResponse combines tracker state with stored metadata. A domain
// that has never been indexed has no Meta.
func (s *Server) statusResponse(ctx context.Context) *indexStatusResponse {
	st := s.Status.Status(s.Domain)
	resp := &indexStatusResponse{
		Domain:   s.Domain,
		State:    st.State,
		Indexing: st.State == sitechat.StateBuilding,
		Error:    st.Error,
	}
	if meta, err := s.Index.FindIndexMeta(ctx, s.Domain); err == nil {
		resp.Meta = meta
	}
	return resp
}

func (s *Server) handleFacts(c echo.Context) error {
	facts, err := s.Facts.FindFacts(c.Request().Context(), s.Domain)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, facts)
}

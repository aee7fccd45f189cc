package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/mqbroker/internal/topicmgr"
)

func (s *Server) listTopics(c echo.Context) error {
	names := s.mgr.Names()
	resp := TopicListResponse{
		Topics:      make([]topicmgr.TopicConfig, 0, len(names)),
		DataVersion: s.mgr.DataVersion(),
	}
	for _, name := range names {
		if cfg, ok := s.mgr.Lookup(name); ok {
			resp.Topics = append(resp.Topics, cfg)
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) getTopic(c echo.Context) error {
	name := c.Param("name")
	cfg, ok := s.mgr.Lookup(name)
	if !ok {
		return notFound(c, name)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (s *Server) putTopic(c echo.Context) error {
	name := c.Param("name")

	var req UpdateTopicRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Type: string(topicmgr.ErrorValidationFailed)})
	}

	ctx := c.Request().Context()
	if err := s.mgr.Update(ctx, req.ToConfig(name)); err != nil {
		return topicError(c, err)
	}
	requestLog(c).Info("Topic updated via admin API", "topic", name)

	cfg, _ := s.mgr.Lookup(name)
	return c.JSON(http.StatusOK, cfg)
}

func (s *Server) deleteTopic(c echo.Context) error {
	name := c.Param("name")
	if !s.mgr.Contains(name) {
		return notFound(c, name)
	}
	ctx := c.Request().Context()
	if err := s.mgr.Delete(ctx, name); err != nil {
		return topicError(c, err)
	}
	requestLog(c).Info("Topic deleted via admin API", "topic", name)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) autoCreateTopic(c echo.Context) error {
	name := c.Param("name")

	req := AutoCreateRequest{Template: topicmgr.AutoCreateTopicKeyTopic, QueueNums: int32(topicmgr.DefaultWriteQueueNums)}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Type: string(topicmgr.ErrorValidationFailed)})
	}
	if err := s.mgr.Validator().ValidateName(name); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Type: string(topicmgr.ErrorInvalidName)})
	}
	if req.Producer == "" {
		req.Producer = c.RealIP()
	}

	cfg, err := s.mgr.CreateOnSend(c.Request().Context(), name, req.Template, req.Producer, req.QueueNums, req.SysFlag)
	if err != nil {
		return topicError(c, err)
	}
	if cfg == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "no topic available for " + name + " from template " + req.Template,
			Type:  string(topicmgr.ErrorTopicNotFound),
		})
	}
	return c.JSON(http.StatusOK, cfg)
}

func (s *Server) snapshot(c echo.Context) error {
	pretty, _ := strconv.ParseBool(c.QueryParam("pretty"))
	data, err := s.mgr.Encode(pretty)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(http.StatusOK, VersionResponse{Version: s.version, Stats: s.mgr.Stats()})
}

func notFound(c echo.Context, name string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{
		Error: "topic " + name + " does not exist",
		Type:  string(topicmgr.ErrorTopicNotFound),
	})
}

// topicError maps a manager error to its HTTP status.
func topicError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}

	var te *topicmgr.TopicError
	if errors.As(err, &te) {
		resp.Type = string(te.Type)
		switch te.Type {
		case topicmgr.ErrorInvalidName, topicmgr.ErrorValidationFailed:
			status = http.StatusBadRequest
		case topicmgr.ErrorTopicNotFound:
			status = http.StatusNotFound
		}
	}
	return c.JSON(status, resp)
}

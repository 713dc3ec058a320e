package rpc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
)

// MaxBatch is the largest number of calls accepted in one batch.
const MaxBatch = 50

const maxBody = 1 << 20

// Request is one call of a batch.
type Request struct {
	ID    json.RawMessage `json:"id,omitempty"`
	Path  string          `json:"path"`
	Input json.RawMessage `json:"input,omitempty"`
}

// Response answers one call. Exactly one of Result and Error is set.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result *Result         `json:"result,omitempty"`
	Error  *apperror.Error `json:"error,omitempty"`
}

type Result struct {
	Data json.RawMessage `json:"data"`
}

// Routes mounts the batch, single-call and listing endpoints on rg.
func (s *Server) Routes(rg gin.IRoutes) {
	rg.GET("", s.List())
	rg.POST("", s.Batch())
	rg.POST("/:path", s.Single())
}

func (s *Server) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"procedures": s.Procedures()})
	}
}

// Batch runs each call of a JSON array independently, in order.
func (s *Server) Batch() gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqs []Request
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
		if err == nil {
			err = json.Unmarshal(body, &reqs)
		}
		if err != nil {
			abort(c, apperror.BadRequest("요청 형식이 올바르지 않습니다."))
			return
		}
		if len(reqs) == 0 || len(reqs) > MaxBatch {
			abort(c, apperror.BadRequest("한 번에 보낼 수 있는 요청 수를 벗어났습니다."))
			return
		}
		caller := auth.SessionFromContext(c.Request.Context())
		out := make([]Response, len(reqs))
		for i, r := range reqs {
			out[i] = s.respond(c, caller, r)
		}
		c.JSON(http.StatusOK, out)
	}
}

// Single runs the procedure named by the path with the body as input.
// The HTTP status follows the error code.
func (s *Server) Single() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
		if err != nil {
			abort(c, apperror.BadRequest("요청 형식이 올바르지 않습니다."))
			return
		}
		caller := auth.SessionFromContext(c.Request.Context())
		resp := s.respond(c, caller, Request{Path: c.Param("path"), Input: bytes.TrimSpace(body)})
		status := http.StatusOK
		if resp.Error != nil {
			status = resp.Error.HTTPStatus()
		}
		c.JSON(status, resp)
	}
}

func (s *Server) respond(c *gin.Context, caller *auth.Session, r Request) Response {
	out, appErr := s.Call(c.Request.Context(), caller, r.Path, r.Input)
	if appErr != nil {
		return Response{ID: r.ID, Error: appErr}
	}
	data, err := json.Marshal(out)
	if err != nil {
		s.log.WithError(err).WithField("path", r.Path).Error("encode result")
		return Response{ID: r.ID, Error: apperror.Internal(err)}
	}
	return Response{ID: r.ID, Result: &Result{Data: data}}
}

func abort(c *gin.Context, e *apperror.Error) {
	c.AbortWithStatusJSON(e.HTTPStatus(), Response{Error: e})
}

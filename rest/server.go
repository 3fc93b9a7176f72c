// Package rest serves the patch endpoints and crosswalk dissemination over
// HTTP.
package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
)

// maxBody caps the size of a patch request body.
const maxBody = 8 << 20

// Server holds the repository the handlers act on. Patches take the write
// lock; reads take the read lock.
type Server struct {
	env   *crosswalk.Env
	patch *patch.Env
	mu    sync.RWMutex
}

// New returns a server over the store, fields and config of env.
func New(env *crosswalk.Env) *Server {
	return &Server{
		env:   env,
		patch: &patch.Env{Store: env.Store, Fields: env.Fields, Config: env.Config},
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestID)
	r.PATCH("/api/core/bitstreams", s.patchSite)
	r.PATCH("/api/:category/:model/:id", s.patchObject)
	r.GET("/api/crosswalks", s.listCrosswalks)
	r.GET("/api/crosswalks/:name/*ref", s.disseminate)
	r.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	errc := make(chan error, 1)
	go func() {
		slogcontext.Log(ctx, slog.LevelInfo, "listening", "addr", addr)
		errc <- server.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdown); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// requestID reuses or assigns an X-Request-Id and puts it on the request's
// log context.
func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-Id")
	if id == "" {
		id = uuid.NewString()
	}
	c.Header("X-Request-Id", id)
	ctx := slogcontext.With(c.Request.Context(), "request_id", id)
	slogcontext.Log(ctx, slog.LevelDebug, "request", "method", c.Request.Method, "path", c.Request.URL.Path)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// apiError is the JSON body of a failed request.
type apiError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func abort(c *gin.Context, status int, msg string) {
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slogcontext.Log(c.Request.Context(), level, "request failed", "status", status, "message", msg)
	c.AbortWithStatusJSON(status, apiError{Status: status, Message: msg})
}

// readPatch checks the content type and decodes the patch body.
func readPatch(c *gin.Context) ([]patch.Operation, error) {
	if ct := c.GetHeader("Content-Type"); ct != "" {
		if mt := c.ContentType(); mt != "application/json-patch+json" && mt != "application/json" {
			return nil, &patch.Error{Status: http.StatusUnsupportedMediaType, Message: "unsupported content type " + ct}
		}
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBody))
	if err != nil {
		return nil, patch.BadRequest("reading body: %v", err)
	}
	return patch.Decode(body)
}

func (s *Server) apply(c *gin.Context, resource string, obj any) {
	ctx := c.Request.Context()
	ops, err := readPatch(c)
	if err != nil {
		abort(c, patch.StatusOf(err), err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := patch.Apply(ctx, s.patch, resource, obj, ops); err != nil {
		abort(c, patch.StatusOf(err), err.Error())
		return
	}
	slogcontext.Log(ctx, slog.LevelInfo, "patched", "resource", resource, "operations", len(ops))
	c.JSON(http.StatusOK, View(s.env.Store, obj))
}

func (s *Server) patchObject(c *gin.Context) {
	m, err := lookupModel(c.Param("category"), c.Param("model"))
	if err != nil {
		abort(c, http.StatusNotFound, err.Error())
		return
	}
	id := c.Param("id")
	c.Request = c.Request.WithContext(slogcontext.With(c.Request.Context(), "model", m.path(), "id", id))
	s.mu.RLock()
	obj, ok := m.find(s.env.Store, id)
	s.mu.RUnlock()
	if !ok {
		abort(c, http.StatusNotFound, fmt.Sprintf("%s %s not found", m.path(), id))
		return
	}
	s.apply(c, m.name, obj)
}

// patchSite applies a patch to the bitstreams endpoint itself, which holds
// bulk deletes.
func (s *Server) patchSite(c *gin.Context) {
	s.apply(c, "bitstreams", s.env.Store.Site())
}

func (s *Server) listCrosswalks(c *gin.Context) {
	infos, err := crosswalk.DefaultRegistry.Describe(s.env)
	if err != nil {
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, infos)
}

func (s *Server) disseminate(c *gin.Context) {
	name := c.Param("name")
	ctx := slogcontext.With(c.Request.Context(), "crosswalk", name)
	c.Request = c.Request.WithContext(ctx)
	cw, err := crosswalk.DefaultRegistry.Build(name, s.env)
	if err != nil {
		abort(c, http.StatusNotFound, err.Error())
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, err := s.env.Store.Resolve(strings.TrimPrefix(c.Param("ref"), "/"))
	if err != nil {
		abort(c, http.StatusNotFound, err.Error())
		return
	}
	pretty, _ := strconv.ParseBool(c.Query("pretty"))

	var buf bytes.Buffer
	switch d := cw.(type) {
	case crosswalk.Disseminator:
		if !d.CanDisseminate(obj) {
			abort(c, http.StatusUnprocessableEntity, crosswalk.NotSupported(d.Name(), obj).Error())
			return
		}
		root, err := d.DisseminateElement(ctx, obj)
		if err != nil {
			abort(c, crosswalkStatus(err), err.Error())
			return
		}
		if err := crosswalk.SerializeDocument(&buf, root, pretty); err != nil {
			abort(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.Data(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
	case crosswalk.StreamDisseminator:
		if !d.CanDisseminate(obj) {
			abort(c, http.StatusUnprocessableEntity, crosswalk.NotSupported(d.Name(), obj).Error())
			return
		}
		if err := d.Disseminate(ctx, obj, &buf); err != nil {
			abort(c, crosswalkStatus(err), err.Error())
			return
		}
		c.Data(http.StatusOK, d.MIMEType(obj), buf.Bytes())
	default:
		abort(c, http.StatusBadRequest, fmt.Sprintf("crosswalk %s does not disseminate", cw.Name()))
	}
}

// crosswalkStatus maps crosswalk failures to HTTP statuses.
func crosswalkStatus(err error) int {
	switch {
	case errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, crosswalk.ErrObjectNotSupported), errors.Is(err, crosswalk.ErrMetadataValidation):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

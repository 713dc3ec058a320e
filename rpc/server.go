// Package rpc exposes registered procedures over one batched HTTP endpoint.
// Every procedure has a tier deciding who may call it; protected and admin
// procedures run inside one database transaction.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/database"
	"github.com/dlfdnd96/kidari-teacher-sub001/metrics"
)

type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

type Tier string

const (
	Public    Tier = "public"
	Protected Tier = "protected"
	Admin     Tier = "admin"
)

var (
	errUnauthorized = apperror.Unauthorized("로그인이 필요합니다.")
	errForbidden    = apperror.Forbidden("관리자 권한이 필요합니다.")
)

// Handler is a typed procedure body. caller is nil on public procedures
// called anonymously.
type Handler[In, Out any] func(ctx context.Context, caller *auth.Session, in In) (Out, error)

// Procedure describes a registered procedure.
type Procedure struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	Tier Tier   `json:"tier"`
}

type procedure struct {
	Procedure
	call func(ctx context.Context, caller *auth.Session, input json.RawMessage) (any, error)
}

type Server struct {
	procs    map[string]*procedure
	tx       database.Transactor
	validate *validator.Validate
	log      *logrus.Entry
}

func NewServer(tx database.Transactor, log *logrus.Entry) *Server {
	return &Server{
		procs:    map[string]*procedure{},
		tx:       tx,
		validate: NewValidator(),
		log:      log.WithField("component", "rpc"),
	}
}

// Register adds a procedure. It panics on a duplicate name.
func Register[In, Out any](s *Server, name string, kind Kind, tier Tier, fn Handler[In, Out]) {
	if _, dup := s.procs[name]; dup {
		panic("rpc: duplicate procedure " + name)
	}
	p := &procedure{Procedure: Procedure{Name: name, Kind: kind, Tier: tier}}
	p.call = func(ctx context.Context, caller *auth.Session, input json.RawMessage) (any, error) {
		var in In
		if err := s.decode(input, &in); err != nil {
			return nil, err
		}
		if tier == Public {
			return fn(ctx, caller, in)
		}
		var out Out
		err := s.tx.WithTx(ctx, func(ctx context.Context) error {
			var err error
			out, err = fn(ctx, caller, in)
			return err
		})
		return out, err
	}
	s.procs[name] = p
}

// Procedures lists the registered procedures by name.
func (s *Server) Procedures() []Procedure {
	out := make([]Procedure, 0, len(s.procs))
	for _, p := range s.procs {
		out = append(out, p.Procedure)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call runs one procedure. The returned error is always an *apperror.Error.
func (s *Server) Call(ctx context.Context, caller *auth.Session, path string, input json.RawMessage) (any, *apperror.Error) {
	p, ok := s.procs[path]
	if !ok {
		metrics.RPCCalls.WithLabelValues("unknown", string(apperror.CodeNotFound)).Inc()
		return nil, apperror.NotFound(fmt.Sprintf("존재하지 않는 요청입니다: %s", path))
	}
	var out any
	err := authorize(p.Tier, caller)
	if err == nil {
		out, err = p.call(ctx, caller, input)
	}
	if err != nil {
		appErr := apperror.From(err)
		if appErr.Code == apperror.CodeInternal {
			s.log.WithError(err).WithField("path", path).Error("procedure failed")
		}
		metrics.RPCCalls.WithLabelValues(path, string(appErr.Code)).Inc()
		return nil, appErr
	}
	metrics.RPCCalls.WithLabelValues(path, "OK").Inc()
	return out, nil
}

func authorize(tier Tier, caller *auth.Session) error {
	if tier == Public {
		return nil
	}
	if !caller.Authenticated() {
		return errUnauthorized
	}
	if tier == Admin && !caller.IsAdmin() {
		return errForbidden
	}
	return nil
}

func (s *Server) decode(input json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, dst); err != nil {
			return apperror.BadRequest("입력값 형식이 올바르지 않습니다.").Wrap(err)
		}
	}
	if reflect.Indirect(reflect.ValueOf(dst)).Kind() != reflect.Struct {
		return nil
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.TrimPrefix(fe.Namespace(), rootNamespace(fe)))
			}
			return apperror.BadRequest("입력값이 올바르지 않습니다: " + strings.Join(fields, ", ")).Wrap(err)
		}
		return apperror.BadRequest("입력값이 올바르지 않습니다.").Wrap(err)
	}
	return nil
}

// rootNamespace is the leading "Type." of a field namespace.
func rootNamespace(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[:i+1]
	}
	return ""
}

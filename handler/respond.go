package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	"github.com/dlfdnd96/kidari-teacher-sub001/rpc"
)

// RegisterBindingValidations installs the custom tags on gin's validator so
// ShouldBindJSON understands notblank, profession and phone.
func RegisterBindingValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator is not go-playground/validator")
	}
	return rpc.RegisterValidations(v)
}

// done is the result of procedures that return no data.
type done struct {
	Success bool `json:"success"`
}

func finish(err error) (done, error) {
	return done{Success: err == nil}, err
}

func writeError(c *gin.Context, err error) {
	e := apperror.From(err)
	c.AbortWithStatusJSON(e.HTTPStatus(), gin.H{"error": e})
}

func badPayload(c *gin.Context, err error) {
	writeError(c, apperror.BadRequest("입력값이 올바르지 않습니다.").Wrap(err))
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": apperror.NotFound("요청한 경로를 찾을 수 없습니다.")})
}

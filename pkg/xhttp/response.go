package xhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
)

type response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// OkJson writes a successful business response.
func OkJson(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response{
		Code: errcode.CodeOK,
		Msg:  "success",
		Data: data,
	})
}

// Error writes a failed business response. *errcode.Err values keep their
// code; anything else degrades to the generic custom code.
func Error(c *gin.Context, err error) {
	var ce *errcode.Err
	if !errors.As(err, &ce) {
		ce = errcode.NewCustomErr(err.Error())
	}
	c.JSON(http.StatusOK, response{
		Code: ce.Code,
		Msg:  ce.Msg,
	})
}

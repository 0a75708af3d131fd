package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/gamesup/pkg/errors"
	"github.com/xiebiao/gamesup/pkg/response"
)

// bindError 请求体或查询参数格式错误
func bindError(c *gin.Context, err error) {
	response.ErrorWithCode(c, apperrors.ErrCodeBindError, "malformed request: "+err.Error())
}

// pathID 解析路径中的正整数ID，失败时已写入400响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

package handler

import (
	"errors"
	"net/http"

	"community_server/internal/infrastructure/validation"
	"community_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseData 统一响应结构体
type ResponseData struct {
	Code int `json:"code"`           // 业务响应状态码
	Msg  any `json:"msg"`            // 提示信息，参数错误时为 字段名 -> 提示 的映射
	Data any `json:"data,omitempty"` // 数据
}

// HandleSuccess 返回成功响应
func HandleSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code": errorx.CodeSuccess,
		"msg":  "success",
		"data": data,
	})
}

// HandleError 通用错误处理方法
// 自动识别 errorx.CodeError 类型的业务错误，或者将系统错误转换为 CodeServerBusy
//
//	if err := svc.DoSomething(); err != nil {
//	    HandleError(c, err)
//	    return
//	}
func HandleError(c *gin.Context, err error) {
	// 1. 尝试断言为 *errorx.CodeError 类型
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		var msg any = codeErr.Msg
		// 字段级错误直接把字段映射返回给前端
		if len(codeErr.Fields) > 0 {
			msg = codeErr.Fields
		}
		if codeErr.Code == errorx.CodeStoreUnavailable {
			zap.L().Error("store unavailable",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			msg = errorx.ErrStoreUnavailable.Msg
		}
		c.JSON(http.StatusOK, gin.H{
			"code": codeErr.Code,
			"msg":  msg,
			"data": nil,
		})
		return
	}

	// 2. 系统错误或未知错误：记录日志并返回服务繁忙
	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusOK, gin.H{
		"code": errorx.ErrServerBusy.Code,
		"msg":  errorx.ErrServerBusy.Msg,
		"data": nil,
	})
}

// HandleParamError 处理参数绑定错误
// validator 错误翻译为字段级提示，其余（如 JSON 格式错误）返回通用参数错误
func HandleParamError(c *gin.Context, err error) {
	translated := validation.Translate(err)
	var codeErr *errorx.CodeError
	if errors.As(translated, &codeErr) {
		HandleError(c, codeErr)
		return
	}

	zap.L().Info("param bind error", zap.Error(err))
	c.JSON(http.StatusOK, gin.H{
		"code": errorx.ErrInvalidParam.Code,
		"msg":  errorx.ErrInvalidParam.Msg,
		"data": nil,
	})
}

package utils

import "github.com/gin-gonic/gin"

// BaseResponse is the uniform envelope for single-object API responses.
type BaseResponse struct {
	Success bool        `json:"Success"`
	Message string      `json:"Message"`
	Object  interface{} `json:"Object"`
	Errors  []string    `json:"Errors"`
}

// PaginatedResponse wraps list payloads together with paging metadata so callers can
// compute page counts without a second request.
type PaginatedResponse struct {
	Success    bool        `json:"Success"`
	Message    string      `json:"Message"`
	Object     interface{} `json:"Object"`
	PageNumber int         `json:"PageNumber"`
	PageSize   int         `json:"PageSize"`
	TotalSize  int64       `json:"TotalSize"`
	Errors     []string    `json:"Errors"`
}

// Success writes a success envelope with the given status code.
func Success(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, BaseResponse{
		Success: true,
		Message: message,
		Object:  data,
	})
}

// Error writes an error envelope. When no detail errors are given the message doubles
// as the single error entry.
func Error(ctx *gin.Context, status int, message string, errs ...string) {
	if len(errs) == 0 {
		errs = []string{message}
	}
	ctx.JSON(status, BaseResponse{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// Paginated writes a paginated success envelope.
func Paginated(ctx *gin.Context, message string, items interface{}, page, size int, total int64) {
	ctx.JSON(200, PaginatedResponse{
		Success:    true,
		Message:    message,
		Object:     items,
		PageNumber: page,
		PageSize:   size,
		TotalSize:  total,
	})
}

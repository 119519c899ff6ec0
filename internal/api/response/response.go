package response

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应信封
// error 字段只在 debug 模式下携带底层错误信息
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Current int   `json:"current"`
	Pages   int64 `json:"pages"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// NewPagination 根据页码、页大小和总数计算分页信息（总页数向上取整）
func NewPagination(page, limit int, total int64) *Pagination {
	pages := int64(math.Ceil(float64(total) / float64(limit)))
	return &Pagination{
		Current: page,
		Pages:   pages,
		Total:   total,
		HasNext: int64(page) < pages,
		HasPrev: page > 1,
	}
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Paginated 带分页信息的成功响应
func Paginated(c *gin.Context, message string, data interface{}, p *Pagination) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: p,
	})
}

func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Fail(c, http.StatusTooManyRequests, message)
}

// InternalError 服务端错误；debug 模式下附带底层错误信息方便排查
func InternalError(c *gin.Context, message string, err error) {
	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil && gin.Mode() == gin.DebugMode {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

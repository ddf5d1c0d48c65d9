package response

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
)

// Envelope is the uniform body of every API response.
type Envelope struct {
	ErrorCode        int            `json:"errorCode"`
	ErrorLevel       apierror.Level `json:"errorLevel"`
	ErrorDescription string         `json:"errorDescription"`
	Data             any            `json:"data"`
}

// Page wraps a list payload with pagination metadata.
type Page struct {
	List          any   `json:"list"`
	TotalElements int64 `json:"totalElements"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalPages    int   `json:"totalPages"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{
		ErrorCode:        apierror.CodeOK,
		ErrorLevel:       apierror.LevelOK,
		ErrorDescription: "success",
		Data:             data,
	})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{
		ErrorCode:        apierror.CodeOK,
		ErrorLevel:       apierror.LevelOK,
		ErrorDescription: "success",
		Data:             data,
	})
}

// Error logs the failure, then writes it in the standard envelope.
func Error(c *gin.Context, err error) {
	apiErr := apierror.From(err)
	log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, apiErr)
	c.JSON(apiErr.Status, Envelope{
		ErrorCode:        apiErr.Code,
		ErrorLevel:       apiErr.Level,
		ErrorDescription: apiErr.Description,
		Data:             apiErr.Data,
	})
}

// AbortError is Error plus c.Abort, for middleware.
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func NewPage(list any, total int64, page, size int) Page {
	totalPages := 0
	if size > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(size)))
	}
	return Page{
		List:          list,
		TotalElements: total,
		PageNumber:    page,
		PageSize:      size,
		TotalPages:    totalPages,
		HasNext:       page < totalPages,
		HasPrevious:   page > 1,
	}
}

// ParsePage reads ?page= and ?size= query params, falling back to page 1
// and the given default size.
func ParsePage(c *gin.Context, defaultSize int) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if size < 1 {
		size = defaultSize
	}
	return page, size
}

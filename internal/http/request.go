package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/domain/dto"
)

// selfValidating is implemented by request bodies that can check themselves
// without outside configuration.
type selfValidating interface {
	Validate() error
}

// bindRequest decodes the JSON body into T and runs its Validate method when
// T has one.
func bindRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	if v, ok := any(&req).(selfValidating); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return &req, nil
}

// queryInt reads an optional integer query parameter. Absent means 0.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &dto.ValidationError{Field: name, Message: "must be an integer"}
	}
	return v, nil
}

// pathOrderID reads the :orderId path parameter, which must be positive.
func pathOrderID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, dto.ErrInvalidOrderID
	}
	return id, nil
}

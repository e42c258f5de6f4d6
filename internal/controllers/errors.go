package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"user-service/internal/apperrors"
	"user-service/internal/middleware"
)

// respondError renders err as an ErrorItem. The detail of unclassified errors is
// only attached to the gin context for the access log.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	middleware.AbortWithError(c, err)
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.Validation(map[string]string{name: "Must be a whole number"})
	}
	return id, nil
}

// queryIDs accepts ?ids=1&ids=2 as well as ?ids=1,2
func queryIDs(c *gin.Context) ([]int64, error) {
	var ids []int64
	for _, raw := range c.QueryArray("ids") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, apperrors.Validation(map[string]string{"ids": "Ids must be whole numbers"})
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, apperrors.Validation(map[string]string{"ids": "At least one id is required"})
	}
	return ids, nil
}

func requiredQuery(c *gin.Context, name string) (string, error) {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return "", apperrors.Validation(map[string]string{name: "Parameter is required"})
	}
	return value, nil
}

// pageParams reads page and size with defaults 0 and 10
func pageParams(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		return 0, 0, apperrors.Validation(map[string]string{"page": "Must be a whole number"})
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		return 0, 0, apperrors.Validation(map[string]string{"size": "Must be a whole number"})
	}
	return page, size, nil
}

func bindJSON(c *gin.Context, dest any) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return apperrors.MalformedBody(err)
	}
	return nil
}

package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// catalogOps are the service calls behind one catalog resource
type catalogOps[T any] struct {
	list   func(ctx context.Context) ([]T, error)
	get    func(ctx context.Context, id string) (T, error)
	create func(ctx context.Context, record T) (T, error)
	update func(ctx context.Context, id string, record T) (T, error)
	delete func(ctx context.Context, id string) error
}

// registerCatalog mounts list/get/create/update/delete under path
func registerCatalog[T any](g *gin.RouterGroup, path string, ops catalogOps[T]) {
	r := g.Group(path)

	r.GET("", func(c *gin.Context) {
		records, err := ops.list(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, records)
	})

	r.GET("/:id", func(c *gin.Context) {
		record, err := ops.get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, record)
	})

	r.POST("", func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		record, err := ops.create(c.Request.Context(), req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, record)
	})

	r.PUT("/:id", func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		record, err := ops.update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, record)
	})

	r.DELETE("/:id", func(c *gin.Context) {
		if err := ops.delete(c.Request.Context(), c.Param("id")); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

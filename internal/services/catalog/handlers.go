package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/matheusmosca/storefront/internal/httpapi"
)

// CatalogHandler contém os handlers HTTP do catálogo
type CatalogHandler struct {
	useCase *CatalogUseCase
}

// NewCatalogHandler cria uma nova instância de CatalogHandler
func NewCatalogHandler(useCase *CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{useCase: useCase}
}

func (h *CatalogHandler) List(c *gin.Context) {
	result, err := h.useCase.List(c.Request.Context(),
		cast.ToInt(c.Query("page")),
		cast.ToInt(c.Query("limit")),
		c.Query("category"),
		c.Query("search"),
	)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}

	httpapi.Respond(c, http.StatusOK, gin.H{
		"products":   result.Products,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"total":      result.Total,
	})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	product, err := h.useCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"product": product})
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.useCase.Categories(c.Request.Context())
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"categories": categories})
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var in ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	product, err := h.useCase.Create(c.Request.Context(), in)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusCreated, gin.H{"product": product})
}

func (h *CatalogHandler) Update(c *gin.Context) {
	var in ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	product, err := h.useCase.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"product": product})
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	product, err := h.useCase.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{
		"message": "Product deleted successfully",
		"product": product,
	})
}

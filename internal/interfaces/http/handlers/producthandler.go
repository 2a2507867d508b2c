package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogUsecases "github.com/carelog-health/carelog/internal/application/catalog/usecases"
	"github.com/carelog-health/carelog/internal/shared/logger"
	"github.com/carelog-health/carelog/internal/shared/utils"
)

// ProductHandler serves the purchasable catalog the paywall renders.
type ProductHandler struct {
	listUC listProductsUseCase
	getUC  getProductUseCase
	logger logger.Interface
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	listUC listProductsUseCase,
	getUC getProductUseCase,
	logger logger.Interface,
) *ProductHandler {
	return &ProductHandler{
		listUC: listUC,
		getUC:  getUC,
		logger: logger,
	}
}

// ListProducts godoc
// @Summary List purchasable products
// @Description Returns active subscription plans and token packs in display order
// @Tags products
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]dto.ProductDTO}
// @Security BearerAuth
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.listUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list products", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", products)
}

// GetProduct godoc
// @Summary Get one product
// @Description Resolves any catalog product, retired ones included, so old receipts stay renderable
// @Tags products
// @Produce json
// @Param id path string true "Product identifier (prod_xxx)"
// @Success 200 {object} utils.APIResponse{data=dto.ProductDTO}
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	query := catalogUsecases.GetProductQuery{ProductID: c.Param("id")}

	product, err := h.getUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", product)
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/internal/domain/dto"
	"github.com/guttosm/dealtracker/internal/middleware"
)

// GetCurrentPrices handles GET /price/{productId}.
//
// Store failures never surface as 5xx: the service degrades them to an
// empty list, so the only non-200 answer is a malformed id.
//
// GetCurrentPrices godoc
// @Summary      Current price per platform
// @Description  Latest observation of every platform that reported the product, cheapest first
// @Tags         prices
// @Produce      json
// @Param        productId  path      int  true  "Product id" example(42)
// @Success      200        {array}   dto.PriceSnapshotResponse  "Success (possibly empty)"
// @Failure      400        {object}  dto.ErrorResponse          "Bad Request"
// @Router       /price/{productId} [get]
func (h *Handler) GetCurrentPrices(c *gin.Context) {
	productID, err := parseID(c.Param("productId"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid product id", err)
		return
	}

	snaps := h.prices.CurrentPrices(c.Request.Context(), productID)
	c.JSON(http.StatusOK, dto.NewPriceSnapshotResponses(snaps))
}

// GetHistory handles GET /history/{productId}?days=N.
//
// GetHistory godoc
// @Summary      Daily minimum price history
// @Description  Lowest price of each of the N most recent days with observations, oldest first
// @Tags         prices
// @Produce      json
// @Param        productId  path      int  true   "Product id" example(42)
// @Param        days       query     int  false  "Number of distinct days (default 7)" example(7)
// @Success      200        {array}   dto.HistoryPointResponse  "Success (possibly empty)"
// @Failure      400        {object}  dto.ErrorResponse         "Bad Request"
// @Router       /history/{productId} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	productID, err := parseID(c.Param("productId"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid product id", err)
		return
	}

	// 0 lets the service apply its configured default.
	days := 0
	if raw, ok := c.GetQuery("days"); ok {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			middleware.AbortWithError(c, http.StatusBadRequest, "days must be a positive integer", err)
			return
		}
	}

	points := h.prices.History(c.Request.Context(), productID, days)
	c.JSON(http.StatusOK, dto.NewHistoryPointResponses(points))
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/internal/domain/dto"
	"github.com/guttosm/dealtracker/internal/middleware"
)

// GetWishlist godoc
// @Summary      List tracked products
// @Description  Every tracked product with its target and current lowest price
// @Tags         wishlist
// @Produce      json
// @Param        uid  query     int  true  "User id"
// @Success      200  {array}   dto.WishlistItemResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse         "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse         "Internal Error"
// @Router       /wishlist [get]
func (h *Handler) GetWishlist(c *gin.Context) {
	uid, err := parseSerialID(c.Query("uid"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid uid", err)
		return
	}

	items, err := h.wishlist.List(c.Request.Context(), uid)
	if err != nil {
		abortWithServiceError(c, err, "failed to fetch wishlist")
		return
	}

	c.JSON(http.StatusOK, dto.NewWishlistItemResponses(items))
}

// GetWishlistAlerts godoc
// @Summary      Products at or below target
// @Tags         wishlist
// @Produce      json
// @Param        uid  query     int  true  "User id"
// @Success      200  {array}   dto.WishlistItemResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse         "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse         "Internal Error"
// @Router       /wishlist/alerts [get]
func (h *Handler) GetWishlistAlerts(c *gin.Context) {
	uid, err := parseSerialID(c.Query("uid"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid uid", err)
		return
	}

	items, err := h.wishlist.Alerts(c.Request.Context(), uid)
	if err != nil {
		abortWithServiceError(c, err, "failed to fetch alerts")
		return
	}

	c.JSON(http.StatusOK, dto.NewWishlistItemResponses(items))
}

// UpsertWishlistItem godoc
// @Summary      Track a product
// @Description  Adds the product or replaces its target price
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Param        body  body      dto.WishlistUpsertRequest  true  "Item"
// @Success      200   {object}  dto.SuccessResponse        "Success"
// @Failure      400   {object}  dto.ErrorResponse          "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse          "Unknown user"
// @Failure      500   {object}  dto.ErrorResponse          "Internal Error"
// @Router       /wishlist [post]
func (h *Handler) UpsertWishlistItem(c *gin.Context) {
	var req dto.WishlistUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "uid and pid are required", err)
		return
	}

	if err := h.wishlist.Upsert(c.Request.Context(), req.UID, *req.PID, req.TargetPrice); err != nil {
		abortWithServiceError(c, err, "failed to save wishlist item")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// RemoveWishlistItem godoc
// @Summary      Stop tracking a product
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Param        body  body      dto.WishlistRemoveRequest  true  "Item"
// @Success      200   {object}  dto.SuccessResponse        "Success"
// @Failure      400   {object}  dto.ErrorResponse          "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse          "Not Found"
// @Failure      500   {object}  dto.ErrorResponse          "Internal Error"
// @Router       /wishlist [delete]
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	var req dto.WishlistRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "uid and pid are required", err)
		return
	}

	if err := h.wishlist.Remove(c.Request.Context(), req.UID, *req.PID); err != nil {
		abortWithServiceError(c, err, "failed to remove wishlist item")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

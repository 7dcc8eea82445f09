package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/internal/domain/dto"
	"github.com/guttosm/dealtracker/internal/middleware"
)

// GetViewHistory godoc
// @Summary      Recently viewed products
// @Description  The user's last 100 views, newest first, with the lowest current price
// @Tags         view-history
// @Produce      json
// @Param        uid  path      int  true  "User id"
// @Success      200  {array}   dto.ViewedProductResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse          "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse          "Internal Error"
// @Router       /view-history/{uid} [get]
func (h *Handler) GetViewHistory(c *gin.Context) {
	uid, err := parseSerialID(c.Param("uid"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid uid", err)
		return
	}

	views, err := h.views.List(c.Request.Context(), uid)
	if err != nil {
		abortWithServiceError(c, err, "failed to fetch view history")
		return
	}

	c.JSON(http.StatusOK, dto.NewViewedProductResponses(views))
}

// RecordView godoc
// @Summary      Record a product view
// @Tags         view-history
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ViewRecordRequest   true  "View"
// @Success      200   {object}  dto.ViewRecordResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse       "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse       "Unknown user"
// @Failure      500   {object}  dto.ErrorResponse       "Internal Error"
// @Router       /view-history [post]
func (h *Handler) RecordView(c *gin.Context) {
	var req dto.ViewRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "uid and pid are required", err)
		return
	}

	v, err := h.views.Record(c.Request.Context(), req.UID, *req.PID)
	if err != nil {
		abortWithServiceError(c, err, "failed to add view history")
		return
	}

	c.JSON(http.StatusOK, dto.ViewRecordResponse{Success: true, Message: "View history recorded", HID: v.ID})
}

// DeleteViewRecord godoc
// @Summary      Delete one view record
// @Tags         view-history
// @Produce      json
// @Param        hid  path      int  true  "View record id"
// @Success      200  {object}  dto.SuccessResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404  {object}  dto.ErrorResponse    "Not Found"
// @Failure      500  {object}  dto.ErrorResponse    "Internal Error"
// @Router       /view-history/{hid} [delete]
func (h *Handler) DeleteViewRecord(c *gin.Context) {
	hid, err := parseSerialID(c.Param("hid"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid hid", err)
		return
	}

	if err := h.views.Delete(c.Request.Context(), hid); err != nil {
		abortWithServiceError(c, err, "failed to delete view history")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "View history deleted"})
}

// ClearViewHistory godoc
// @Summary      Clear a user's view history
// @Tags         view-history
// @Produce      json
// @Param        uid  path      int  true  "User id"
// @Success      200  {object}  dto.SuccessResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse    "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse    "Internal Error"
// @Router       /view-history/user/{uid} [delete]
func (h *Handler) ClearViewHistory(c *gin.Context) {
	uid, err := parseSerialID(c.Param("uid"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid uid", err)
		return
	}

	n, err := h.views.Clear(c.Request.Context(), uid)
	if err != nil {
		abortWithServiceError(c, err, "failed to clear view history")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: fmt.Sprintf("Deleted %d view history records", n)})
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/internal/domain/dto"
	"github.com/guttosm/dealtracker/internal/middleware"
	"github.com/guttosm/dealtracker/internal/service"
)

// RegisterUser godoc
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest   true  "Account data"
// @Success      201   {object}  dto.RegisterResponse  "Created"
// @Failure      400   {object}  dto.ErrorResponse     "Bad Request"
// @Failure      409   {object}  dto.ErrorResponse     "Email already registered"
// @Failure      500   {object}  dto.ErrorResponse     "Internal Error"
// @Router       /user/register [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "name, email and password are required", err)
		return
	}

	uid, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Gender:   req.Gender,
	})
	if err != nil {
		abortWithServiceError(c, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{Success: true, Message: "User registered successfully", UID: uid})
}

// LoginUser godoc
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest   true  "Credentials"
// @Success      200   {object}  dto.UserEnvelope   "Success"
// @Failure      400   {object}  dto.ErrorResponse  "Bad Request"
// @Failure      401   {object}  dto.ErrorResponse  "Invalid credentials"
// @Router       /user/login [post]
func (h *Handler) LoginUser(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "email and password are required", err)
		return
	}

	u, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithServiceError(c, err, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, dto.UserEnvelope{Success: true, Message: "Login successful", User: dto.NewUserResponse(u)})
}

// GetUser godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        uid  path      int  true  "User id"
// @Success      200  {object}  dto.UserResponse   "Success"
// @Failure      400  {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404  {object}  dto.ErrorResponse  "Not Found"
// @Router       /user/{uid} [get]
func (h *Handler) GetUser(c *gin.Context) {
	uid, err := parseSerialID(c.Param("uid"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid uid", err)
		return
	}

	u, err := h.users.Get(c.Request.Context(), uid)
	if err != nil {
		abortWithServiceError(c, err, "failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Only the provided, non-empty fields change
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        uid   path      int                    true  "User id"
// @Param        body  body      dto.UpdateUserRequest  true  "Fields to change"
// @Success      200   {object}  dto.UserEnvelope       "Success"
// @Failure      400   {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse      "Not Found"
// @Failure      409   {object}  dto.ErrorResponse      "Email already registered"
// @Router       /user/{uid} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	uid, err := parseSerialID(c.Param("uid"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid uid", err)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	u, err := h.users.Update(c.Request.Context(), uid, service.UserChanges{
		Name:     optional(req.Name),
		Email:    optional(req.Email),
		Gender:   optional(req.Gender),
		Password: optional(req.Password),
	})
	if err != nil {
		abortWithServiceError(c, err, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, dto.UserEnvelope{Success: true, Message: "User updated successfully", User: dto.NewUserResponse(u)})
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        uid  path      int  true  "User id"
// @Success      200  {object}  dto.SuccessResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404  {object}  dto.ErrorResponse    "Not Found"
// @Router       /user/{uid} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	uid, err := parseSerialID(c.Param("uid"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid uid", err)
		return
	}

	if err := h.users.Delete(c.Request.Context(), uid); err != nil {
		abortWithServiceError(c, err, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "User deleted successfully"})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

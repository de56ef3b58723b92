package handler

import (
	"net/http"
	"volunteer-match/internal/usecase/user"
	"volunteer-match/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:user_id", h.GetUser)
		users.PUT("/:user_id", h.UpdateUser)
		users.DELETE("/:user_id", h.DeleteUser)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var req user.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User retrieved successfully", u)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	sanitizeCreateUser(&req)

	u, err := h.service.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User created successfully", u)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Sanitize input
	req.PhoneNumber = utils.SanitizeOptional(req.PhoneNumber, utils.SanitizePhone)
	req.FirstName = utils.SanitizeOptional(req.FirstName, utils.SanitizeString)
	req.LastName = utils.SanitizeOptional(req.LastName, utils.SanitizeString)
	req.Address = utils.SanitizeOptional(req.Address, utils.SanitizeText)
	req.Description = utils.SanitizeOptional(req.Description, utils.SanitizeText)

	u, err := h.service.UpdateUser(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User updated successfully", u)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	u, err := h.service.DeleteUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted successfully", u)
}

func sanitizeCreateUser(req *user.CreateUserRequest) {
	req.PhoneNumber = utils.SanitizePhone(req.PhoneNumber)
	req.FirstName = utils.SanitizeString(req.FirstName)
	req.LastName = utils.SanitizeString(req.LastName)
	req.Address = utils.SanitizeOptional(req.Address, utils.SanitizeText)
	req.Description = utils.SanitizeOptional(req.Description, utils.SanitizeText)
}

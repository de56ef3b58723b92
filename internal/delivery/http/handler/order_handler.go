package handler

import (
	"net/http"
	"volunteer-match/internal/usecase/order"
	"volunteer-match/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *order.Service
}

func NewOrderHandler(service *order.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.POST("", h.CreateOrder)
		orders.GET("/:order_id", h.GetOrder)
		orders.PUT("/:order_id", h.UpdateOrder)
		orders.DELETE("/:order_id", h.DeleteOrder)
	}
}

// ListOrders runs the order query engine over the query string.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req order.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	items, err := h.service.ListOrders(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", items)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.service.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Order retrieved successfully", o)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.service.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Order created successfully", o)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req order.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.service.UpdateOrder(c.Request.Context(), orderID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Order updated successfully", o)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.service.DeleteOrder(c.Request.Context(), orderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Order deleted successfully", o)
}

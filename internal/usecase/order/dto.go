package order

import (
	"encoding/json"
	"time"
	domainOrder "volunteer-match/internal/domain/order"
)

// ListOrdersRequest binds the GET /orders query string. Timestamps are RFC 3339.
type ListOrdersRequest struct {
	Category    string     `form:"category" validate:"omitempty,order_category"`
	Status      string     `form:"status" validate:"omitempty,order_status"`
	SeniorID    *int64     `form:"senior_id"`
	VolunteerID *int64     `form:"volunteer_id"`
	ValidSince  *time.Time `form:"valid_since" time_format:"2006-01-02T15:04:05Z07:00"`
	ValidUntil  *time.Time `form:"valid_until" time_format:"2006-01-02T15:04:05Z07:00"`

	// Sorting
	SortBy        string `form:"sort_by"`
	SortDirection string `form:"sort_direction" validate:"omitempty,oneof=asc desc"`

	// Pagination
	Skip  int  `form:"skip" validate:"min=0"`
	Limit *int `form:"limit" validate:"omitempty,min=0"`

	// Reference point for distance
	Latitude  *float64 `form:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `form:"longitude" validate:"omitempty,longitude"`
}

type CreateOrderRequest struct {
	Category    string                 `json:"category" validate:"required,order_category"`
	Description map[string]interface{} `json:"description"`
	ValidSince  *time.Time             `json:"valid_since"`
	ValidUntil  *time.Time             `json:"valid_until"`
	Status      string                 `json:"status" validate:"omitempty,order_status"`
	SeniorID    int64                  `json:"senior_id" validate:"required,gt=0"`
	VolunteerID *int64                 `json:"volunteer_id" validate:"omitempty,gt=0"`
}

// UpdateOrderRequest is a partial update; omitted fields keep their value.
type UpdateOrderRequest struct {
	Category    *string                 `json:"category" validate:"omitempty,order_category"`
	Description *map[string]interface{} `json:"description"`
	ValidSince  *time.Time              `json:"valid_since"`
	ValidUntil  *time.Time              `json:"valid_until"`
	Status      *string                 `json:"status" validate:"omitempty,order_status"`
	SeniorID    *int64                  `json:"senior_id" validate:"omitempty,gt=0"`
	VolunteerID *int64                  `json:"volunteer_id" validate:"omitempty,gt=0"`
}

type OrderResponse struct {
	ID          int64                  `json:"id"`
	Category    domainOrder.Category   `json:"category"`
	Description map[string]interface{} `json:"description"`
	CreatedAt   time.Time              `json:"created_at"`
	ValidSince  *time.Time             `json:"valid_since"`
	ValidUntil  *time.Time             `json:"valid_until"`
	Status      domainOrder.Status     `json:"status"`
	SeniorID    int64                  `json:"senior_id"`
	VolunteerID *int64                 `json:"volunteer_id"`
}

// OrderListItem is one row of GET /orders. The distance key is present only
// when the query carried a reference point, and is null when the senior has
// no stored coordinates.
type OrderListItem struct {
	OrderResponse
	Distance    *float64
	HasDistance bool
}

func (i OrderListItem) MarshalJSON() ([]byte, error) {
	if !i.HasDistance {
		return json.Marshal(i.OrderResponse)
	}
	return json.Marshal(struct {
		OrderResponse
		Distance *float64 `json:"distance"`
	}{i.OrderResponse, i.Distance})
}

func ToOrderResponse(o *domainOrder.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	description := map[string]interface{}(o.Description)
	if description == nil {
		description = map[string]interface{}{}
	}
	return &OrderResponse{
		ID:          o.ID,
		Category:    o.Category,
		Description: description,
		CreatedAt:   o.CreatedAt,
		ValidSince:  o.ValidSince,
		ValidUntil:  o.ValidUntil,
		Status:      o.Status,
		SeniorID:    o.SeniorID,
		VolunteerID: o.VolunteerID,
	}
}

func ToOrderListItems(results []domainOrder.Result) []OrderListItem {
	items := make([]OrderListItem, len(results))
	for i, r := range results {
		items[i] = OrderListItem{
			OrderResponse: *ToOrderResponse(r.Order),
			Distance:      r.Distance,
			HasDistance:   r.HasDistance,
		}
	}
	return items
}

func toDomainOrder(req *CreateOrderRequest) *domainOrder.Order {
	return &domainOrder.Order{
		Category:    domainOrder.Category(req.Category),
		Description: domainOrder.Description(req.Description),
		ValidSince:  req.ValidSince,
		ValidUntil:  req.ValidUntil,
		Status:      domainOrder.Status(req.Status),
		SeniorID:    req.SeniorID,
		VolunteerID: req.VolunteerID,
	}
}

func toDomainPatch(req *UpdateOrderRequest) *domainOrder.Patch {
	patch := &domainOrder.Patch{
		ValidSince:  req.ValidSince,
		ValidUntil:  req.ValidUntil,
		SeniorID:    req.SeniorID,
		VolunteerID: req.VolunteerID,
	}
	if req.Category != nil {
		category := domainOrder.Category(*req.Category)
		patch.Category = &category
	}
	if req.Description != nil {
		description := domainOrder.Description(*req.Description)
		patch.Description = &description
	}
	if req.Status != nil {
		status := domainOrder.Status(*req.Status)
		patch.Status = &status
	}
	return patch
}

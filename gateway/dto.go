package gateway

import (
	"github.com/example/shopstore/pkg/service"
	"github.com/shopspring/decimal"
)

func init() {
	// money is rendered as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type createProductRequest struct {
	ProductName       string           `json:"product_name" binding:"required"`
	Description       string           `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	QuantityAvailable *int             `json:"quantity_available"`
	ImageURL          string           `json:"image_url"`
}

func (r createProductRequest) toInput() service.CreateProductInput {
	return service.CreateProductInput{
		Name:              r.ProductName,
		Description:       r.Description,
		Price:             r.Price,
		QuantityAvailable: r.QuantityAvailable,
		ImageURL:          r.ImageURL,
	}
}

type createCustomerRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
}

func (r createCustomerRequest) toInput() service.CreateCustomerInput {
	return service.CreateCustomerInput{
		Name:    r.CustomerName,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		City:    r.City,
	}
}

type orderItemRequest struct {
	ProductID *int64 `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

type placeOrderRequest struct {
	CustomerID *int64             `json:"customer_id" binding:"required"`
	Items      []orderItemRequest `json:"items" binding:"dive"`
}

func (r placeOrderRequest) toInput() service.PlaceOrderInput {
	items := make([]service.LineItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = service.LineItemInput{ProductID: *item.ProductID, Quantity: *item.Quantity}
	}
	return service.PlaceOrderInput{CustomerID: *r.CustomerID, Items: items}
}

type createdResponse struct {
	Success    bool  `json:"success"`
	ProductID  int64 `json:"product_id,omitempty"`
	CustomerID int64 `json:"customer_id,omitempty"`
}

type placedOrderResponse struct {
	Success     bool            `json:"success"`
	OrderID     int64           `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (g *Gateway) listProducts(c *gin.Context) {
	products, err := g.services.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (g *Gateway) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := g.services.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (g *Gateway) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	id, err := g.services.Catalog.CreateProduct(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{Success: true, ProductID: id})
}

func (g *Gateway) listCustomers(c *gin.Context) {
	customers, err := g.services.Customers.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (g *Gateway) createCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	id, err := g.services.Customers.CreateCustomer(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{Success: true, CustomerID: id})
}

func (g *Gateway) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	placed, err := g.services.Placer.PlaceOrder(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusCreated, placedOrderResponse{
		Success:     true,
		OrderID:     placed.OrderID,
		TotalAmount: placed.TotalAmount,
	})
}

func (g *Gateway) listCustomerOrders(c *gin.Context) {
	customerID, ok := pathID(c)
	if !ok {
		return
	}

	orders, err := g.services.Orders.ListCustomerOrders(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (g *Gateway) listOrderItems(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	items, err := g.services.Orders.ListOrderItems(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (g *Gateway) getBill(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	bill, err := g.services.Billing.GetBill(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, bill)
}

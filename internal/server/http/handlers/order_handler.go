package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/metrics"
	"github.com/polkiloo/foodcourt/internal/server/http/dto"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed order")
		return
	}
	withIdentity(&req, CurrentViewer(c))

	order, err := h.facade.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		failWith(c, "create_order", err)
		return
	}
	metrics.OrdersCreatedTotal.Inc()
	respond(c, http.StatusCreated, "Order placed", gin.H{"order": order})
}

// CreateBulk handles POST /api/orders/bulk.
func (h *OrderHandler) CreateBulk(c *gin.Context) {
	var req dto.BulkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed orders")
		return
	}
	viewer := CurrentViewer(c)
	for i := range req.Orders {
		withIdentity(&req.Orders[i], viewer)
	}

	orders, err := h.facade.PlaceOrders(c.Request.Context(), req.Orders)
	if err != nil {
		failWith(c, "create_orders", err)
		return
	}
	metrics.OrdersCreatedTotal.Add(float64(len(orders)))
	respond(c, http.StatusCreated, "Orders placed", gin.H{"orders": orders})
}

// List handles GET /api/orders. Admins may filter freely; customers only see their own orders.
func (h *OrderHandler) List(c *gin.Context) {
	viewer := CurrentViewer(c)
	filter := model.OrderFilter{ActiveOnly: queryBool(c, "active")}
	if viewer.Admin() {
		filter.UserID = strings.TrimSpace(c.Query("userId"))
		filter.UserEmail = strings.TrimSpace(c.Query("email"))
	} else {
		if viewer.UserID == "" && viewer.UserEmail == "" {
			fail(c, http.StatusBadRequest, "user id or email required")
			return
		}
		filter.UserID = viewer.UserID
		filter.UserEmail = viewer.UserEmail
	}

	orders, err := h.facade.Orders(c.Request.Context(), filter)
	if err != nil {
		failWith(c, "list_orders", err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	respond(c, http.StatusOK, "", gin.H{"orders": orders})
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, "get_order", err)
		return
	}
	viewer := CurrentViewer(c)
	if !viewer.Admin() && (viewer.UserID != "" || viewer.UserEmail != "") && !viewer.Sees(*order) {
		fail(c, http.StatusForbidden, "order belongs to another customer")
		return
	}
	respond(c, http.StatusOK, "", gin.H{"order": order})
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed update")
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Update())
	if err != nil {
		failWith(c, "update_order", err)
		return
	}
	respond(c, http.StatusOK, "Order updated", gin.H{"order": order})
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteOrder(c.Request.Context(), c.Param("id"), CurrentViewer(c)); err != nil {
		failWith(c, "delete_order", err)
		return
	}
	respond(c, http.StatusOK, "Order deleted", nil)
}

func withIdentity(in *model.OrderInput, viewer model.Viewer) {
	if viewer.Admin() {
		return
	}
	if strings.TrimSpace(in.UserID) == "" {
		in.UserID = viewer.UserID
	}
	if strings.TrimSpace(in.UserEmail) == "" {
		in.UserEmail = viewer.UserEmail
	}
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

package api

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/example/cityshades/modules/auth"
	"github.com/example/cityshades/modules/catalog"
	"github.com/example/cityshades/modules/marketing"
	"github.com/example/cityshades/modules/order"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the storefront API.
type Handlers struct {
	catalog   catalog.CatalogPort
	orders    order.OrderPort
	marketing marketing.MarketingPort
	auth      auth.AuthPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(catalogPort catalog.CatalogPort, orderPort order.OrderPort, marketingPort marketing.MarketingPort, authPort auth.AuthPort) *Handlers {
	return &Handlers{
		catalog:   catalogPort,
		orders:    orderPort,
		marketing: marketingPort,
		auth:      authPort,
	}
}

// ListProducts handles GET /products.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	req := catalog.ListProductsRequest{
		Category:   c.Query("category"),
		Gender:     c.Query("gender"),
		Bestseller: queryFlag(c, "bestseller"),
		New:        queryFlag(c, "new"),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
		Limit:      c.QueryInt("limit", 0),
		Offset:     c.QueryInt("offset", 0),
	}

	products, total, err := h.catalog.ListProducts(c.UserContext(), req)
	if err != nil {
		return err
	}

	c.Set("X-Total-Count", strconv.Itoa(total))
	return c.JSON(products)
}

// ListAllProducts handles GET /admin/products: every product, newest first.
func (h *Handlers) ListAllProducts(c *fiber.Ctx) error {
	products, total, err := h.catalog.ListProducts(c.UserContext(), catalog.ListProductsRequest{})
	if err != nil {
		return err
	}
	c.Set("X-Total-Count", strconv.Itoa(total))
	return c.JSON(products)
}

// GetProduct handles GET /products/:id.
func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	p, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// ListCategories handles GET /categories.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// Bestsellers handles GET /bestsellers.
func (h *Handlers) Bestsellers(c *fiber.Ctx) error {
	products, err := h.catalog.Bestsellers(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// NewArrivals handles GET /newarrivals.
func (h *Handlers) NewArrivals(c *fiber.Ctx) error {
	products, err := h.catalog.NewArrivals(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// CreateProduct handles POST /products and POST /admin/products.
func (h *Handlers) CreateProduct(c *fiber.Ctx) error {
	var in catalog.ProductInput
	if err := parseJSON(c, &in); err != nil {
		return err
	}
	p, err := h.catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdateProduct handles PUT /admin/products/:id.
func (h *Handlers) UpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	var in catalog.ProductInput
	if err := parseJSON(c, &in); err != nil {
		return err
	}
	p, err := h.catalog.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// DeleteProduct handles DELETE /admin/products/:id.
func (h *Handlers) DeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(catalog.DeleteProductResponse{Success: true, ID: id})
}

// PlaceOrder handles POST /orders.
func (h *Handlers) PlaceOrder(c *fiber.Ctx) error {
	var req order.PlaceOrderRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.orders.PlaceOrder(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetOrder handles GET /orders/:orderNumber.
func (h *Handlers) GetOrder(c *fiber.Ctx) error {
	o, err := h.orders.GetOrder(c.UserContext(), c.Params("orderNumber"))
	if err != nil {
		return err
	}
	return c.JSON(o)
}

// ListOrders handles GET /admin/orders.
func (h *Handlers) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// QuoteCart handles POST /cart/quote.
func (h *Handlers) QuoteCart(c *fiber.Ctx) error {
	var req order.QuoteRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	q, err := h.orders.Quote(c.UserContext(), req.Items)
	if err != nil {
		return err
	}
	return c.JSON(q)
}

// Subscribe handles POST /subscribe.
func (h *Handlers) Subscribe(c *fiber.Ctx) error {
	var req marketing.SubscribeRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.marketing.Subscribe(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Contact handles POST /contact.
func (h *Handlers) Contact(c *fiber.Ctx) error {
	var req marketing.ContactInput
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.marketing.Contact(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListSubscribers handles GET /admin/subscribers.
func (h *Handlers) ListSubscribers(c *fiber.Ctx) error {
	subs, err := h.marketing.ListSubscribers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(subs)
}

// ListMessages handles GET /admin/messages.
func (h *Handlers) ListMessages(c *fiber.Ctx) error {
	msgs, err := h.marketing.ListMessages(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(msgs)
}

// Login handles POST /auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Me handles GET /auth/me. The token's user must still exist.
func (h *Handlers) Me(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}
	profile, err := h.auth.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(auth.GetUserResponse{User: profile})
}

// methodNotAllowed answers any verb a known path does not serve.
func methodNotAllowed(_ *fiber.Ctx) error {
	return errMethodNotAllowed
}

// parseJSON decodes the request body into v. An empty body leaves v unchanged.
func parseJSON(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errInvalidBody
	}
	return nil
}

func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, catalog.ErrInvalidProductID
	}
	return id, nil
}

// queryFlag accepts "1" and "true" as set.
func queryFlag(c *fiber.Ctx, key string) bool {
	v := strings.TrimSpace(c.Query(key))
	return v == "1" || strings.EqualFold(v, "true")
}

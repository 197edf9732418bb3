package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/diewo77/stock-admin/internal/models"
)

func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var out []T
	if err := c.get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func getOne[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var out T
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func write[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	if err := c.doJSON(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, c, "/users", nil)
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	return getOne[models.User](ctx, c, idPath("users", id))
}

func (c *Client) CreateUser(ctx context.Context, in models.UserInput) (*models.User, error) {
	return write[models.User](ctx, c, http.MethodPost, "/users", in)
}

func (c *Client) UpdateUser(ctx context.Context, id string, in models.UserInput) (*models.User, error) {
	return write[models.User](ctx, c, http.MethodPut, idPath("users", id), in)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.doNoBody(ctx, http.MethodDelete, idPath("users", id))
}

// Companies

func (c *Client) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return list[models.Company](ctx, c, "/companies", nil)
}

func (c *Client) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	return getOne[models.Company](ctx, c, idPath("companies", id))
}

func (c *Client) CreateCompany(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	return write[models.Company](ctx, c, http.MethodPost, "/companies", in)
}

func (c *Client) UpdateCompany(ctx context.Context, id string, in models.CompanyInput) (*models.Company, error) {
	return write[models.Company](ctx, c, http.MethodPut, idPath("companies", id), in)
}

func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.doNoBody(ctx, http.MethodDelete, idPath("companies", id))
}

// Categories

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	return list[models.Category](ctx, c, "/categories", nil)
}

func (c *Client) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return getOne[models.Category](ctx, c, idPath("categories", id))
}

func (c *Client) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	return write[models.Category](ctx, c, http.MethodPost, "/categories", in)
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error) {
	return write[models.Category](ctx, c, http.MethodPut, idPath("categories", id), in)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.doNoBody(ctx, http.MethodDelete, idPath("categories", id))
}

func (c *Client) ListSubCategories(ctx context.Context, categoryID string) ([]models.SubCategory, error) {
	return list[models.SubCategory](ctx, c, idPath("categories", categoryID, "subcategories"), nil)
}

func (c *Client) CreateSubCategory(ctx context.Context, categoryID string, in models.CategoryInput) (*models.SubCategory, error) {
	return write[models.SubCategory](ctx, c, http.MethodPost, idPath("categories", categoryID, "subcategories"), in)
}

func (c *Client) DeleteSubCategory(ctx context.Context, id string) error {
	return c.doNoBody(ctx, http.MethodDelete, idPath("subcategories", id))
}

// Products

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	return list[models.Product](ctx, c, "/products", nil)
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return getOne[models.Product](ctx, c, idPath("products", id))
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	return write[models.Product](ctx, c, http.MethodPost, "/products", in)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	return write[models.Product](ctx, c, http.MethodPut, idPath("products", id), in)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doNoBody(ctx, http.MethodDelete, idPath("products", id))
}

// Stock

func (c *Client) ListStock(ctx context.Context) ([]models.Stock, error) {
	return list[models.Stock](ctx, c, "/stocks", nil)
}

func (c *Client) GetStock(ctx context.Context, id string) (*models.Stock, error) {
	return getOne[models.Stock](ctx, c, idPath("stocks", id))
}

// UpdateStock changes the low-stock threshold of a stock line.
func (c *Client) UpdateStock(ctx context.Context, id string, threshold float64) (*models.Stock, error) {
	return write[models.Stock](ctx, c, http.MethodPut, idPath("stocks", id), map[string]float64{"threshold": threshold})
}

// AdjustStock records a movement; the backend applies it to the quantity.
func (c *Client) AdjustStock(ctx context.Context, id string, mv models.StockMovement) (*models.Stock, error) {
	return write[models.Stock](ctx, c, http.MethodPost, idPath("stocks", id, "movements"), mv)
}

// Orders

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	return list[models.Order](ctx, c, "/orders", nil)
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return getOne[models.Order](ctx, c, idPath("orders", id))
}

func (c *Client) CreateOrder(ctx context.Context, in models.OrderInput) (*models.Order, error) {
	return write[models.Order](ctx, c, http.MethodPost, "/orders", in)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	return write[models.Order](ctx, c, http.MethodPatch, idPath("orders", id, "status"), map[string]models.OrderStatus{"status": status})
}

func (c *Client) AssignOrder(ctx context.Context, id string, a models.Assignment) (*models.Order, error) {
	return write[models.Order](ctx, c, http.MethodPost, idPath("orders", id, "assign"), a)
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.doNoBody(ctx, http.MethodDelete, idPath("orders", id))
}

// OrderPDF downloads the printable order (delivery note / receipt).
func (c *Client) OrderPDF(ctx context.Context, id string) (*Binary, error) {
	return c.getBinary(ctx, idPath("orders", id, "pdf"), nil, "order-"+id+".pdf")
}

// Trucks

func (c *Client) ListTrucks(ctx context.Context) ([]models.Truck, error) {
	return list[models.Truck](ctx, c, "/camions", nil)
}

func (c *Client) GetTruck(ctx context.Context, id string) (*models.Truck, error) {
	return getOne[models.Truck](ctx, c, idPath("camions", id))
}

func (c *Client) CreateTruck(ctx context.Context, in models.TruckInput) (*models.Truck, error) {
	return write[models.Truck](ctx, c, http.MethodPost, "/camions", in)
}

func (c *Client) UpdateTruck(ctx context.Context, id string, in models.TruckInput) (*models.Truck, error) {
	return write[models.Truck](ctx, c, http.MethodPut, idPath("camions", id), in)
}

func (c *Client) DeleteTruck(ctx context.Context, id string) error {
	return c.doNoBody(ctx, http.MethodDelete, idPath("camions", id))
}

// Drivers

func (c *Client) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	return list[models.Driver](ctx, c, "/chauffeurs", nil)
}

func (c *Client) GetDriver(ctx context.Context, id string) (*models.Driver, error) {
	return getOne[models.Driver](ctx, c, idPath("chauffeurs", id))
}

func (c *Client) CreateDriver(ctx context.Context, in models.DriverInput) (*models.Driver, error) {
	return write[models.Driver](ctx, c, http.MethodPost, "/chauffeurs", in)
}

func (c *Client) UpdateDriver(ctx context.Context, id string, in models.DriverInput) (*models.Driver, error) {
	return write[models.Driver](ctx, c, http.MethodPut, idPath("chauffeurs", id), in)
}

func (c *Client) DeleteDriver(ctx context.Context, id string) error {
	return c.doNoBody(ctx, http.MethodDelete, idPath("chauffeurs", id))
}

// Reports

const reportDate = "2006-01-02"

func reportQuery(from, to time.Time, companyID string) url.Values {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format(reportDate))
	}
	if !to.IsZero() {
		q.Set("to", to.Format(reportDate))
	}
	if companyID != "" {
		q.Set("company_id", companyID)
	}
	return q
}

// GenerateReport asks the backend to compute a report for the period.
func (c *Client) GenerateReport(ctx context.Context, req models.ReportRequest) (*models.Report, error) {
	body := map[string]string{}
	for k, v := range reportQuery(req.From, req.To, req.CompanyID) {
		body[k] = v[0]
	}
	rep, err := write[models.Report](ctx, c, http.MethodPost, idPath("reports", req.Type), body)
	if err != nil {
		return nil, err
	}
	if rep.Type == "" {
		rep.Type = req.Type
	}
	return rep, nil
}

// ReportPDF downloads the rendered report.
func (c *Client) ReportPDF(ctx context.Context, req models.ReportRequest) (*Binary, error) {
	return c.getBinary(ctx, idPath("reports", req.Type, "pdf"), reportQuery(req.From, req.To, req.CompanyID), "report-"+req.Type+".pdf")
}

// Notifications

func (c *Client) ListTopics(ctx context.Context) ([]models.NotificationTopic, error) {
	return list[models.NotificationTopic](ctx, c, "/notifications/topics", nil)
}

func (c *Client) CreateTopic(ctx context.Context, in models.TopicInput) (*models.NotificationTopic, error) {
	return write[models.NotificationTopic](ctx, c, http.MethodPost, "/notifications/topics", in)
}

func (c *Client) DeleteTopic(ctx context.Context, id string) error {
	return c.doNoBody(ctx, http.MethodDelete, idPath("notifications", "topics", id))
}

// SendNotification pushes a notification to every subscriber of a topic.
func (c *Client) SendNotification(ctx context.Context, in models.NotificationInput) error {
	return c.doJSON(ctx, http.MethodPost, "/notifications/send", in, nil)
}

func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	return list[models.Notification](ctx, c, "/notifications", nil)
}

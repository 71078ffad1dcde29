// Package client is a typed HTTP client for the HostelPG API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
)

// APIError is a failed call decoded from the error envelope
type APIError struct {
	Status  int
	Code    string
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s, field %s, status %d)", e.Message, e.Code, e.Field, e.Status)
	}
	return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Code, e.Status)
}

// envelope mirrors dto.APIResponse with the payload left undecoded
type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Count   *int             `json:"count"`
	Error   *dto.ErrorDetail `json:"error"`
}

// ListingFilter narrows hostel and PG listings. Zero values are not sent.
type ListingFilter struct {
	Area          string
	Gender        string // PGs only
	MinPrice      float64
	MaxPrice      float64
	AvailableOnly bool
}

// Client talks to one HostelPG server. It is safe for concurrent use.
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for baseURL, e.g. http://localhost:3000/api
func New(baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}
}

// SetToken sets the bearer token sent with every request
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// do executes req and decodes the envelope payload into out when out is non-nil
func (c *Client) do(req *resty.Request, method, path string, out interface{}) (*envelope, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("%s %s: decode response (status %d): %w", method, path, resp.StatusCode(), err)
	}

	if resp.IsError() || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode(), Message: env.Message}
		if env.Error != nil {
			apiErr.Code = string(env.Error.Code)
			apiErr.Field = env.Error.Field
			if env.Error.Message != "" {
				apiErr.Message = env.Error.Message
			}
		}
		return &env, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &env, fmt.Errorf("%s %s: decode data: %w", method, path, err)
		}
	}
	return &env, nil
}

// Register creates a student account and keeps the returned token
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if _, err := c.do(c.request(ctx).SetBody(req), resty.MethodPost, "/auth/register", &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Login authenticates a student and keeps the returned token
func (c *Client) Login(ctx context.Context, studentID, password string) (*dto.AuthResponse, error) {
	body := dto.LoginRequest{StudentID: studentID, Password: password}
	var out dto.AuthResponse
	if _, err := c.do(c.request(ctx).SetBody(body), resty.MethodPost, "/auth/login", &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Logout revokes the current token and forgets it
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.do(c.request(ctx), resty.MethodPost, "/auth/logout", nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

// Profile returns the logged-in student
func (c *Client) Profile(ctx context.Context) (*models.Student, error) {
	var out models.Student
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/auth/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update
func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*models.Student, error) {
	var out models.Student
	if _, err := c.do(c.request(ctx).SetBody(req), resty.MethodPut, "/auth/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Hostels lists active hostels
func (c *Client) Hostels(ctx context.Context, f ListingFilter) ([]models.Hostel, error) {
	var out []models.Hostel
	req := c.request(ctx).SetQueryParams(f.params("available_rooms"))
	if _, err := c.do(req, resty.MethodGet, "/hostels", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Hostel returns one hostel
func (c *Client) Hostel(ctx context.Context, id int64) (*models.Hostel, error) {
	var out models.Hostel
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/hostels/"+strconv.FormatInt(id, 10), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HostelsByArea lists active hostels in area
func (c *Client) HostelsByArea(ctx context.Context, area string) ([]models.Hostel, error) {
	var out []models.Hostel
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/hostels/area/"+url.PathEscape(area), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchHostels matches term against hostel name, location, area and description
func (c *Client) SearchHostels(ctx context.Context, term string) ([]models.Hostel, error) {
	var out []models.Hostel
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/hostels/search/"+url.PathEscape(term), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HostelAreas lists the areas with active hostels
func (c *Client) HostelAreas(ctx context.Context) ([]string, error) {
	var out []string
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/hostels/areas/list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PGs lists active PGs
func (c *Client) PGs(ctx context.Context, f ListingFilter) ([]models.PG, error) {
	var out []models.PG
	req := c.request(ctx).SetQueryParams(f.params("available_spots"))
	if _, err := c.do(req, resty.MethodGet, "/pgs", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PG returns one PG
func (c *Client) PG(ctx context.Context, id int64) (*models.PG, error) {
	var out models.PG
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/pgs/"+strconv.FormatInt(id, 10), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PGsByArea lists active PGs in area
func (c *Client) PGsByArea(ctx context.Context, area string) ([]models.PG, error) {
	var out []models.PG
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/pgs/area/"+url.PathEscape(area), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchPGs matches term against PG name, location, area and description
func (c *Client) SearchPGs(ctx context.Context, term string) ([]models.PG, error) {
	var out []models.PG
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/pgs/search/"+url.PathEscape(term), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PGAreas lists the areas with active PGs
func (c *Client) PGAreas(ctx context.Context) ([]string, error) {
	var out []string
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/pgs/areas/list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PGGenders lists the gender preferences offered by active PGs
func (c *Client) PGGenders(ctx context.Context) ([]string, error) {
	var out []string
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/pgs/genders/list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookHostel requests a hostel room for the logged-in student
func (c *Client) BookHostel(ctx context.Context, req dto.BookingRequest) (*models.Booking, error) {
	return c.book(ctx, "/hostels/book", req)
}

// BookPG requests a PG spot for the logged-in student
func (c *Client) BookPG(ctx context.Context, req dto.BookingRequest) (*models.Booking, error) {
	return c.book(ctx, "/pgs/book", req)
}

func (c *Client) book(ctx context.Context, path string, req dto.BookingRequest) (*models.Booking, error) {
	var out models.Booking
	if _, err := c.do(c.request(ctx).SetBody(req), resty.MethodPost, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyBookings lists the logged-in student's bookings
func (c *Client) MyBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if _, err := c.do(c.request(ctx), resty.MethodGet, "/bookings/my", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health reports the server and database status. A 503 is returned as a
// response with Status "ERROR" rather than an error.
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var out dto.HealthResponse
	resp, err := c.request(ctx).SetResult(&out).SetError(&out).Get("/health")
	if err != nil {
		return nil, fmt.Errorf("GET /health: %w", err)
	}
	if out.Status == "" {
		return nil, &APIError{Status: resp.StatusCode(), Message: "unexpected health response"}
	}
	return &out, nil
}

func (f ListingFilter) params(availableKey string) map[string]string {
	params := map[string]string{}
	if f.Area != "" {
		params["area"] = f.Area
	}
	if f.Gender != "" {
		params["gender"] = f.Gender
	}
	if f.MinPrice > 0 {
		params["min_price"] = strconv.FormatFloat(f.MinPrice, 'f', -1, 64)
	}
	if f.MaxPrice > 0 {
		params["max_price"] = strconv.FormatFloat(f.MaxPrice, 'f', -1, 64)
	}
	if f.AvailableOnly {
		params[availableKey] = "true"
	}
	return params
}

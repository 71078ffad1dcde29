package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/app/services"
	"github.com/yigit/hostelpg/internal/middleware"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/auth"
	"github.com/yigit/hostelpg/internal/pkg/export"
	"github.com/yigit/hostelpg/internal/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// asStudent stands in for JWTAuth on routes under test
func asStudent(studentID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextClaims, &auth.Claims{UserID: 7, StudentID: studentID, Role: auth.RoleStudent})
		c.Set(middleware.ContextRole, auth.RoleStudent)
		c.Next()
	}
}

func asAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextClaims, &auth.Claims{UserID: 1, Username: "admin", Role: auth.RoleAdmin})
		c.Set(middleware.ContextRole, auth.RoleAdmin)
		c.Next()
	}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type fakeHostels struct {
	services.HostelService
	list   func(f models.PropertyFilter) ([]models.Hostel, error)
	get    func(id int64) (*models.Hostel, error)
	search func(term string) ([]models.Hostel, error)
}

func (f *fakeHostels) List(_ context.Context, filter models.PropertyFilter) ([]models.Hostel, error) {
	return f.list(filter)
}

func (f *fakeHostels) Get(_ context.Context, id int64) (*models.Hostel, error) {
	return f.get(id)
}

func (f *fakeHostels) Search(_ context.Context, term string, _ models.PropertyFilter) ([]models.Hostel, error) {
	return f.search(term)
}

type fakeBookings struct {
	services.BookingService
	book    func(actor services.Actor, pt models.PropertyType, req *dto.BookingRequest) (*models.Booking, error)
	list    func(f models.BookingFilter) ([]models.Booking, int, error)
	approve func(pt models.PropertyType, id int64, d models.Decision) (*models.Booking, error)
	cancel  func(actor services.Actor, pt models.PropertyType, id int64, notes string) (*models.Booking, error)
	export  func(f models.BookingFilter) ([]byte, error)
}

func (f *fakeBookings) Book(_ context.Context, actor services.Actor, pt models.PropertyType, req *dto.BookingRequest) (*models.Booking, error) {
	return f.book(actor, pt, req)
}

func (f *fakeBookings) List(_ context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	return f.list(filter)
}

func (f *fakeBookings) Approve(_ context.Context, _ services.Actor, pt models.PropertyType, id int64, d models.Decision) (*models.Booking, error) {
	return f.approve(pt, id, d)
}

func (f *fakeBookings) Cancel(_ context.Context, actor services.Actor, pt models.PropertyType, id int64, notes string) (*models.Booking, error) {
	return f.cancel(actor, pt, id, notes)
}

func (f *fakeBookings) Export(_ context.Context, filter models.BookingFilter) ([]byte, error) {
	return f.export(filter)
}

type fakeAdmin struct {
	services.AdminService
	healthErr error
}

func (f *fakeAdmin) Health(context.Context) error {
	return f.healthErr
}

func TestHostelController_GetAllHostels(t *testing.T) {
	var got models.PropertyFilter
	hostels := &fakeHostels{list: func(f models.PropertyFilter) ([]models.Hostel, error) {
		got = f
		return []models.Hostel{{ID: 1, Name: "Green Valley Hostel"}, {ID: 2, Name: "City Center Hostel"}}, nil
	}}
	c := NewHostelController(hostels, nil)

	r := gin.New()
	r.GET("/hostels", c.GetAllHostels)

	w := do(r, http.MethodGet, "/hostels?area=Phase%201&min_price=3000&available_rooms=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.True(t, body.Success)
	require.NotNil(t, body.Count)
	assert.Equal(t, 2, *body.Count)

	require.NotNil(t, got.Area)
	assert.Equal(t, "Phase 1", *got.Area)
	require.NotNil(t, got.MinPrice)
	assert.Equal(t, 3000.0, *got.MinPrice)
	assert.Nil(t, got.MaxPrice)
	assert.True(t, got.AvailableOnly)
}

func TestHostelController_GetAllHostels_MalformedQuery(t *testing.T) {
	called := false
	hostels := &fakeHostels{list: func(models.PropertyFilter) ([]models.Hostel, error) {
		called = true
		return nil, nil
	}}
	c := NewHostelController(hostels, nil)

	r := gin.New()
	r.GET("/hostels", c.GetAllHostels)

	tests := []struct {
		query string
		field string
	}{
		{"min_price=cheap", "min_price"},
		{"max_price=oops", "max_price"},
		{"available_rooms=maybe", "available_rooms"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			w := do(r, http.MethodGet, "/hostels?"+tt.query, "")
			require.Equal(t, http.StatusBadRequest, w.Code)

			body := decode(t, w)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, "VAL_001", body.Error.Code)
			assert.Equal(t, tt.field, body.Error.Field)
		})
	}
	assert.False(t, called)
}

func TestHostelController_GetHostelByID(t *testing.T) {
	hostels := &fakeHostels{get: func(id int64) (*models.Hostel, error) {
		if id == 3 {
			return &models.Hostel{ID: 3, Name: "University Hostel A"}, nil
		}
		return nil, apperrors.ErrHostelNotFound
	}}
	r := gin.New()
	r.GET("/hostels/:id", NewHostelController(hostels, nil).GetHostelByID)

	tests := []struct {
		name     string
		path     string
		wantCode int
		errCode  string
		errMsg   string
	}{
		{"found", "/hostels/3", http.StatusOK, "", ""},
		{"missing", "/hostels/99", http.StatusNotFound, "RES_001", "Hostel not found"},
		{"malformed id", "/hostels/abc", http.StatusBadRequest, "VAL_001", "Invalid ID format"},
		{"zero id", "/hostels/0", http.StatusBadRequest, "VAL_001", "Invalid ID format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantCode, w.Code)

			body := decode(t, w)
			if tt.errCode == "" {
				assert.True(t, body.Success)
				var hostel models.Hostel
				require.NoError(t, json.Unmarshal(body.Data, &hostel))
				assert.Equal(t, "University Hostel A", hostel.Name)
				return
			}
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.errCode, body.Error.Code)
			assert.Equal(t, tt.errMsg, body.Error.Message)
		})
	}
}

func TestHostelController_SearchHostels_EmptyTerm(t *testing.T) {
	hostels := &fakeHostels{search: func(term string) ([]models.Hostel, error) {
		if strings.TrimSpace(term) == "" {
			return nil, apperrors.NewBadRequestError("Search query is required")
		}
		return []models.Hostel{}, nil
	}}
	r := gin.New()
	r.GET("/hostels/search/:term", NewHostelController(hostels, nil).SearchHostels)

	w := do(r, http.MethodGet, "/hostels/search/%20", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Search query is required", decode(t, w).Message)
}

func TestHostelController_BookHostel(t *testing.T) {
	var gotActor services.Actor
	var gotType models.PropertyType
	bookings := &fakeBookings{book: func(actor services.Actor, pt models.PropertyType, req *dto.BookingRequest) (*models.Booking, error) {
		gotActor, gotType = actor, pt
		if req.PropertyID == 2 {
			return nil, apperrors.ErrNoRoomsAvailable
		}
		return &models.Booking{ID: 10, PropertyType: pt, PropertyID: req.PropertyID, StudentID: actor.StudentID, Status: models.StatusPending}, nil
	}}
	r := gin.New()
	r.POST("/hostels/book", asStudent("2024001"), NewHostelController(nil, bookings).BookHostel)

	t.Run("created", func(t *testing.T) {
		w := do(r, http.MethodPost, "/hostels/book", `{"property_id": 3, "move_in_date": "2025-07-01"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, models.PropertyTypeHostel, gotType)
		assert.Equal(t, "2024001", gotActor.StudentID)
		assert.Equal(t, auth.RoleStudent, gotActor.Role)

		var booking models.Booking
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &booking))
		assert.Equal(t, models.StatusPending, booking.Status)
	})

	t.Run("no availability", func(t *testing.T) {
		w := do(r, http.MethodPost, "/hostels/book", `{"property_id": 2}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		require.NotNil(t, body.Error)
		assert.Equal(t, "BKG_001", body.Error.Code)
	})

	t.Run("invalid date", func(t *testing.T) {
		w := do(r, http.MethodPost, "/hostels/book", `{"property_id": 3, "move_in_date": "01/07/2025"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		require.NotNil(t, body.Error)
		assert.Equal(t, "move_in_date", body.Error.Field)
	})
}

func TestBookingController_GetBookings_TypeFilter(t *testing.T) {
	var got models.BookingFilter
	bookings := &fakeBookings{list: func(f models.BookingFilter) ([]models.Booking, int, error) {
		got = f
		return []models.Booking{{ID: 1}}, 42, nil
	}}
	r := gin.New()
	r.GET("/admin/bookings", asAdmin(), NewBookingController(bookings).GetBookings)

	w := do(r, http.MethodGet, "/admin/bookings?status=pending&limit=10&offset=20", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.NotNil(t, body.Count)
	assert.Equal(t, 42, *body.Count, "count is the full match count")
	assert.Nil(t, got.PropertyType, "both types when type is omitted")
	require.NotNil(t, got.Status)
	assert.Equal(t, models.StatusPending, *got.Status)
	assert.Equal(t, uint64(10), got.Limit)
	assert.Equal(t, uint64(20), got.Offset)

	w = do(r, http.MethodGet, "/admin/bookings?type=hostel", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.PropertyType)
	assert.Equal(t, models.PropertyTypeHostel, *got.PropertyType)

	w = do(r, http.MethodGet, "/admin/bookings?type=villa", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Property type must be 'hostel' or 'pg'", decode(t, w).Message)
}

func TestBookingController_ApproveAllotment(t *testing.T) {
	var gotType models.PropertyType
	var gotDecision models.Decision
	bookings := &fakeBookings{approve: func(pt models.PropertyType, id int64, d models.Decision) (*models.Booking, error) {
		gotType, gotDecision = pt, d
		if id == 5 {
			return nil, apperrors.ErrBookingNotPending
		}
		return &models.Booking{ID: id, Status: models.StatusApproved, AssignedRoom: d.AssignedRoom}, nil
	}}
	r := gin.New()
	r.PUT("/admin/allotments/:id/approve", asAdmin(), NewBookingController(bookings).ApproveAllotment)

	w := do(r, http.MethodPut, "/admin/allotments/4/approve", `{"admin_notes": "ok", "assigned_room": "B-12"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PropertyTypeHostel, gotType)
	assert.Equal(t, "B-12", gotDecision.AssignedRoom)
	assert.Equal(t, "Allotment approved successfully", decode(t, w).Message)

	// An empty body is accepted
	w = do(r, http.MethodPut, "/admin/allotments/4/approve", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, gotDecision.Notes)

	w = do(r, http.MethodPut, "/admin/allotments/5/approve", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Booking not found in pending state", decode(t, w).Message)
}

func TestBookingController_CancelMyBooking(t *testing.T) {
	var gotActor services.Actor
	bookings := &fakeBookings{cancel: func(actor services.Actor, pt models.PropertyType, id int64, notes string) (*models.Booking, error) {
		gotActor = actor
		return &models.Booking{ID: id, PropertyType: pt, Status: models.StatusCancelled, AdminNotes: notes}, nil
	}}
	r := gin.New()
	r.PUT("/bookings/:type/:id/cancel", asStudent("2024001"), NewBookingController(bookings).CancelMyBooking)

	w := do(r, http.MethodPut, "/bookings/pg/8/cancel", `{"reason": "changed plans"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024001", gotActor.StudentID)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &booking))
	assert.Equal(t, models.PropertyTypePG, booking.PropertyType)
	assert.Equal(t, "changed plans", booking.AdminNotes)

	w = do(r, http.MethodPut, "/bookings/flat/8/cancel", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingController_ExportBookings(t *testing.T) {
	bookings := &fakeBookings{export: func(f models.BookingFilter) ([]byte, error) {
		if f.PropertyType != nil && *f.PropertyType == models.PropertyTypeHostel {
			return nil, errors.New("pq: relation \"hostel_allotments\" does not exist")
		}
		return []byte("PK\x03\x04"), nil
	}}
	r := gin.New()
	r.GET("/admin/export/bookings.xlsx", asAdmin(), NewBookingController(bookings).ExportBookings)

	w := do(r, http.MethodGet, "/admin/export/bookings.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="bookings.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK\x03\x04", w.Body.String())

	w = do(r, http.MethodGet, "/admin/export/bookings.xlsx?type=hostel", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestAdminController_HealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		healthErr  error
		wantCode   int
		wantStatus string
		wantDB     string
	}{
		{"healthy", nil, http.StatusOK, "OK", "connected"},
		{"database down", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, "ERROR", "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewAdminController(&fakeAdmin{healthErr: tt.healthErr}, zerolog.Nop())
			r := gin.New()
			r.GET("/health", c.HealthCheck)

			w := do(r, http.MethodGet, "/health", "")
			assert.Equal(t, tt.wantCode, w.Code)

			var resp dto.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantDB, resp.Database)
			assert.NotEmpty(t, resp.Time)
		})
	}
}

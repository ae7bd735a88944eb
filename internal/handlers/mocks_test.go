package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/bma/api/internal/domain"
	"github.com/stwalsh4118/bma/api/internal/logger"
	"github.com/stwalsh4118/bma/api/internal/middleware"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/services"
)

var (
	adminUser  = domain.Principal{UserID: 1, IsAdmin: true, IsActive: true}
	memberUser = domain.Principal{UserID: 2, IsActive: true}
)

type MockBuildingService struct{ mock.Mock }

func (m *MockBuildingService) Create(ctx context.Context, p domain.Principal, b models.Building) (*models.Building, error) {
	args := m.Called(ctx, p, b)
	if v := args.Get(0); v != nil {
		return v.(*models.Building), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBuildingService) Get(ctx context.Context, number string) (*models.Building, error) {
	args := m.Called(ctx, number)
	if v := args.Get(0); v != nil {
		return v.(*models.Building), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockApartmentService struct{ mock.Mock }

func (m *MockApartmentService) CreateApartments(ctx context.Context, p domain.Principal, drafts []models.Apartment) ([]models.Apartment, error) {
	args := m.Called(ctx, p, drafts)
	if v := args.Get(0); v != nil {
		return v.([]models.Apartment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockApartmentService) Get(ctx context.Context, number int) (*models.Apartment, error) {
	args := m.Called(ctx, number)
	if v := args.Get(0); v != nil {
		return v.(*models.Apartment), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) BookApartment(ctx context.Context, p domain.Principal, req services.BookingRequest) (*services.BookingResult, error) {
	args := m.Called(ctx, p, req)
	if v := args.Get(0); v != nil {
		return v.(*services.BookingResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLeaseService struct{ mock.Mock }

func (m *MockLeaseService) Get(ctx context.Context, number int64) (*services.LeaseDetails, error) {
	args := m.Called(ctx, number)
	if v := args.Get(0); v != nil {
		return v.(*services.LeaseDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLeaseService) Transition(ctx context.Context, p domain.Principal, number int64, to models.LeaseStatus) (*models.Lease, error) {
	args := m.Called(ctx, p, number, to)
	if v := args.Get(0); v != nil {
		return v.(*models.Lease), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLeaseService) BreakLease(ctx context.Context, p domain.Principal, number int64, b domain.LeaseBreak) (*models.Lease, error) {
	args := m.Called(ctx, p, number, b)
	if v := args.Get(0); v != nil {
		return v.(*models.Lease), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTenantService struct{ mock.Mock }

func (m *MockTenantService) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTenantService) Update(ctx context.Context, p domain.Principal, id uuid.UUID, upd services.TenantUpdate) (*models.Tenant, error) {
	args := m.Called(ctx, p, id, upd)
	if v := args.Get(0); v != nil {
		return v.(*models.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockParkingService struct{ mock.Mock }

func (m *MockParkingService) Create(ctx context.Context, p domain.Principal, req services.ParkingCreate) (*models.ParkingSpot, error) {
	args := m.Called(ctx, p, req)
	if v := args.Get(0); v != nil {
		return v.(*models.ParkingSpot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockParkingService) Update(ctx context.Context, p domain.Principal, number int, req services.ParkingUpdate) (*models.ParkingSpot, error) {
	args := m.Called(ctx, p, number, req)
	if v := args.Get(0); v != nil {
		return v.(*models.ParkingSpot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockParkingService) Get(ctx context.Context, number int) (*models.ParkingSpot, error) {
	args := m.Called(ctx, number)
	if v := args.Get(0); v != nil {
		return v.(*models.ParkingSpot), args.Error(1)
	}
	return nil, args.Error(1)
}

type testServices struct {
	buildings  *MockBuildingService
	apartments *MockApartmentService
	booking    *MockBookingService
	leases     *MockLeaseService
	tenants    *MockTenantService
	parking    *MockParkingService
}

func (s *testServices) assertExpectations(t mock.TestingT) {
	s.buildings.AssertExpectations(t)
	s.apartments.AssertExpectations(t)
	s.booking.AssertExpectations(t)
	s.leases.AssertExpectations(t)
	s.tenants.AssertExpectations(t)
	s.parking.AssertExpectations(t)
}

// setupAPIRouter mounts every resource route behind a stub that installs
// the given principal. A nil principal leaves the request anonymous.
func setupAPIRouter(p *domain.Principal) (*gin.Engine, *testServices) {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	svc := &testServices{
		buildings:  &MockBuildingService{},
		apartments: &MockApartmentService{},
		booking:    &MockBookingService{},
		leases:     &MockLeaseService{},
		tenants:    &MockTenantService{},
		parking:    &MockParkingService{},
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.New("test", logger.WithOutput(io.Discard))))

	v1 := router.Group("/api/v1")
	v1.Use(func(c *gin.Context) {
		if p != nil {
			c.Set(middleware.PrincipalKey, *p)
		}
		c.Next()
	})
	RegisterRoutes(v1, API{
		Buildings:  NewBuildingHandler(svc.buildings),
		Apartments: NewApartmentHandler(svc.apartments),
		Leases:     NewLeaseHandler(svc.booking, svc.leases),
		Tenants:    NewTenantHandler(svc.tenants),
		Parking:    NewParkingHandler(svc.parking),
	})

	return router, svc
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

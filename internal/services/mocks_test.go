package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/bma/api/internal/domain"
	"github.com/stwalsh4118/bma/api/internal/locking"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/repository"
)

// MockStore hands out the mock repositories. WithTx runs the callback
// against the same store and returns its error, like a committed or
// rolled-back transaction would.
type MockStore struct {
	buildings  *MockBuildingRepository
	apartments *MockApartmentRepository
	leases     *MockLeaseRepository
	tenants    *MockTenantRepository
	parking    *MockParkingRepository
	users      *MockUserRepository
	txCount    int
}

func newMockStore() *MockStore {
	return &MockStore{
		buildings:  new(MockBuildingRepository),
		apartments: new(MockApartmentRepository),
		leases:     new(MockLeaseRepository),
		tenants:    new(MockTenantRepository),
		parking:    new(MockParkingRepository),
		users:      new(MockUserRepository),
	}
}

func (s *MockStore) Buildings() repository.BuildingRepository   { return s.buildings }
func (s *MockStore) Apartments() repository.ApartmentRepository { return s.apartments }
func (s *MockStore) Leases() repository.LeaseRepository         { return s.leases }
func (s *MockStore) Tenants() repository.TenantRepository       { return s.tenants }
func (s *MockStore) Parking() repository.ParkingRepository      { return s.parking }
func (s *MockStore) Users() repository.UserRepository           { return s.users }

func (s *MockStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	s.txCount++
	return fn(s)
}

type assertable interface {
	AssertExpectations(t mock.TestingT) bool
}

func (s *MockStore) AssertExpectations(t mock.TestingT) {
	for _, m := range []assertable{s.buildings, s.apartments, s.leases, s.tenants, s.parking, s.users} {
		m.AssertExpectations(t)
	}
}

type MockBuildingRepository struct {
	mock.Mock
}

func (m *MockBuildingRepository) Create(ctx context.Context, b *models.Building) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBuildingRepository) FindByNumber(ctx context.Context, number string) (*models.Building, error) {
	args := m.Called(ctx, number)
	b, _ := args.Get(0).(*models.Building)
	return b, args.Error(1)
}

func (m *MockBuildingRepository) LockByNumber(ctx context.Context, number string) (*models.Building, error) {
	args := m.Called(ctx, number)
	b, _ := args.Get(0).(*models.Building)
	return b, args.Error(1)
}

type MockApartmentRepository struct {
	mock.Mock
}

func (m *MockApartmentRepository) Create(ctx context.Context, a *models.Apartment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockApartmentRepository) FindByNumber(ctx context.Context, number int) (*models.Apartment, error) {
	args := m.Called(ctx, number)
	a, _ := args.Get(0).(*models.Apartment)
	return a, args.Error(1)
}

func (m *MockApartmentRepository) LockByNumber(ctx context.Context, number int) (*models.Apartment, error) {
	args := m.Called(ctx, number)
	a, _ := args.Get(0).(*models.Apartment)
	return a, args.Error(1)
}

func (m *MockApartmentRepository) CountOnFloor(ctx context.Context, building string, floor int) (int, error) {
	args := m.Called(ctx, building, floor)
	return args.Int(0), args.Error(1)
}

func (m *MockApartmentRepository) SetAvailability(ctx context.Context, number int, available bool, actor int64, now time.Time) error {
	return m.Called(ctx, number, available, actor, now).Error(0)
}

type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) Create(ctx context.Context, l *models.Lease) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeaseRepository) FindByNumber(ctx context.Context, number int64) (*models.Lease, error) {
	args := m.Called(ctx, number)
	l, _ := args.Get(0).(*models.Lease)
	return l, args.Error(1)
}

func (m *MockLeaseRepository) LockByNumber(ctx context.Context, number int64) (*models.Lease, error) {
	args := m.Called(ctx, number)
	l, _ := args.Get(0).(*models.Lease)
	return l, args.Error(1)
}

func (m *MockLeaseRepository) HasOpenLease(ctx context.Context, apartment int) (bool, error) {
	args := m.Called(ctx, apartment)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeaseRepository) Update(ctx context.Context, l *models.Lease) error {
	return m.Called(ctx, l).Error(0)
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, t *models.Tenant) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Tenant)
	return t, args.Error(1)
}

func (m *MockTenantRepository) ListByLease(ctx context.Context, leaseID int64) ([]models.Tenant, error) {
	args := m.Called(ctx, leaseID)
	ts, _ := args.Get(0).([]models.Tenant)
	return ts, args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, t *models.Tenant) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTenantRepository) ActiveForUser(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) DeactivateByLease(ctx context.Context, leaseID int64, actor int64, now time.Time) ([]int64, error) {
	args := m.Called(ctx, leaseID, actor, now)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type MockParkingRepository struct {
	mock.Mock
}

func (m *MockParkingRepository) Create(ctx context.Context, p *models.ParkingSpot) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockParkingRepository) FindByNumber(ctx context.Context, number int) (*models.ParkingSpot, error) {
	args := m.Called(ctx, number)
	p, _ := args.Get(0).(*models.ParkingSpot)
	return p, args.Error(1)
}

func (m *MockParkingRepository) LockByNumber(ctx context.Context, number int) (*models.ParkingSpot, error) {
	args := m.Called(ctx, number)
	p, _ := args.Get(0).(*models.ParkingSpot)
	return p, args.Error(1)
}

func (m *MockParkingRepository) Update(ctx context.Context, p *models.ParkingSpot) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockParkingRepository) CountByBuilding(ctx context.Context, building string) (int, error) {
	args := m.Called(ctx, building)
	return args.Int(0), args.Error(1)
}

func (m *MockParkingRepository) CountInUseByApartment(ctx context.Context, apartment int) (int, error) {
	args := m.Called(ctx, apartment)
	return args.Int(0), args.Error(1)
}

func (m *MockParkingRepository) ReleaseByApartment(ctx context.Context, apartment int, actor int64, now time.Time) (int64, error) {
	args := m.Called(ctx, apartment, actor, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) SetTenantFlag(ctx context.Context, id int64, isTenant bool) error {
	return m.Called(ctx, id, isTenant).Error(0)
}

// MockLocker records acquisitions and releases.
type MockLocker struct {
	mock.Mock
	released int
}

func (m *MockLocker) Acquire(ctx context.Context, key string) (locking.ReleaseFunc, error) {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

var (
	testNow = time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC)
	admin   = domain.Principal{UserID: 1, IsAdmin: true, IsActive: true}
	member  = domain.Principal{UserID: 2, IsActive: true}
)

func fixedClock() Option {
	return WithClock(func() time.Time { return testNow })
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }
func intPtr(v int) *int             { return &v }

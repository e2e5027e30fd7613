package shipment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/parcelhub/backend/internal/domain/shared"
	"github.com/parcelhub/backend/internal/domain/shared/valueobject"
	"github.com/parcelhub/backend/internal/domain/shipment"
)

// MockShipmentRepository is a mock implementation of ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) FindByID(ctx context.Context, id int64) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByOrder(ctx context.Context, orderID int64) ([]shipment.Shipment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipment.Shipment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShipmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher records published domain events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func testSyncOrder(t *testing.T) *shipment.Order {
	t.Helper()
	return &shipment.Order{
		ID:              100,
		ShippingAddress: valueobject.MustNewAddress("Max", "Mustermann", "Musterstr. 12", "Berlin"),
		Lines: []shipment.OrderLine{
			{ID: 10, Name: "Blue T-Shirt", Quantity: 2, UnitWeight: decimal.NewFromFloat(1.1), UnitTotal: decimal.NewFromFloat(15.50)},
		},
	}
}

func TestShipmentServiceCreate(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	mockPublisher := new(MockEventPublisher)
	service := NewShipmentService(mockRepo)
	service.SetEventPublisher(mockPublisher)

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*shipment.Shipment")).Return(nil)
	mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	sh, err := service.Create(context.Background(), 100, shipment.TypeSimple)

	assert.NoError(t, err)
	assert.NotNil(t, sh)
	assert.Equal(t, int64(100), sh.OrderID)
	assert.Equal(t, shipment.StatusDraft, sh.Status)
	// Events are published once and cleared afterwards
	assert.Empty(t, sh.GetDomainEvents())
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestShipmentServiceCreateInvalidOrder(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	service := NewShipmentService(mockRepo)

	sh, err := service.Create(context.Background(), 0, shipment.TypeSimple)

	assert.Error(t, err)
	assert.Nil(t, sh)
	assert.Contains(t, err.Error(), "Order reference cannot be empty")
	mockRepo.AssertNotCalled(t, "Save")
}

func TestShipmentServiceCreateSaveFails(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	mockPublisher := new(MockEventPublisher)
	service := NewShipmentService(mockRepo)
	service.SetEventPublisher(mockPublisher)

	mockRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	sh, err := service.Create(context.Background(), 100, shipment.TypeSimple)

	assert.Error(t, err)
	assert.Nil(t, sh)
	mockPublisher.AssertNotCalled(t, "Publish")
}

func TestShipmentServiceCreateFromOrder(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	mockPublisher := new(MockEventPublisher)
	service := NewShipmentService(mockRepo)
	service.SetEventPublisher(mockPublisher)
	order := testSyncOrder(t)

	mockRepo.On("FindByOrder", mock.Anything, int64(100)).Return([]shipment.Shipment{}, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*shipment.Shipment")).Return(nil)
	mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	sh, err := service.CreateFromOrder(context.Background(), order, shipment.TypeSimple)

	assert.NoError(t, err)
	assert.Equal(t, 1, sh.ItemCount())
	assert.Equal(t, "Blue T-Shirt", sh.Items[0].Name)
	assert.Equal(t, 2, sh.Items[0].Quantity)
	assert.Equal(t, "Musterstr.", sh.Address.Street())
	mockRepo.AssertExpectations(t)
}

func TestShipmentServiceCreateFromOrderNothingLeft(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	service := NewShipmentService(mockRepo)
	order := testSyncOrder(t)

	// A sibling shipment already covers the full order quantity.
	sibling, err := shipment.NewShipment(100, shipment.TypeSimple)
	assert.NoError(t, err)
	item, err := shipment.NewShipmentItem(10, "Blue T-Shirt", 2, decimal.NewFromFloat(1.1), decimal.NewFromFloat(15.50))
	assert.NoError(t, err)
	assert.NoError(t, sibling.AddItem(item))
	mockRepo.On("FindByOrder", mock.Anything, int64(100)).Return([]shipment.Shipment{*sibling}, nil)

	sh, err := service.CreateFromOrder(context.Background(), order, shipment.TypeSimple)

	assert.Nil(t, sh)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no shippable quantity")
	mockRepo.AssertNotCalled(t, "Save")
}

func TestShipmentServiceCreateFromOrderNilOrder(t *testing.T) {
	service := NewShipmentService(new(MockShipmentRepository))

	sh, err := service.CreateFromOrder(context.Background(), nil, shipment.TypeSimple)

	assert.Nil(t, sh)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestShipmentServiceSync(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	mockPublisher := new(MockEventPublisher)
	service := NewShipmentService(mockRepo)
	service.SetEventPublisher(mockPublisher)
	order := testSyncOrder(t)

	stored, err := shipment.NewShipment(100, shipment.TypeSimple)
	assert.NoError(t, err)
	stored.ID = 7
	stored.ClearDomainEvents()

	mockRepo.On("FindByID", mock.Anything, int64(7)).Return(stored, nil)
	mockRepo.On("FindByOrder", mock.Anything, int64(100)).Return([]shipment.Shipment{*stored}, nil)
	mockRepo.On("Save", mock.Anything, stored).Return(nil)
	mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	sh, err := service.Sync(context.Background(), 7, order)

	assert.NoError(t, err)
	assert.Equal(t, 1, sh.ItemCount())
	assert.Empty(t, sh.GetDomainEvents())
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestShipmentServiceSyncNotFound(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	service := NewShipmentService(mockRepo)

	mockRepo.On("FindByID", mock.Anything, int64(99)).Return(nil, shared.ErrNotFound)

	sh, err := service.Sync(context.Background(), 99, testSyncOrder(t))

	assert.Nil(t, sh)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestShipmentServiceUpdateStatus(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	mockPublisher := new(MockEventPublisher)
	service := NewShipmentService(mockRepo)
	service.SetEventPublisher(mockPublisher)

	stored, err := shipment.NewShipment(100, shipment.TypeSimple)
	assert.NoError(t, err)
	stored.ID = 7
	stored.ClearDomainEvents()

	mockRepo.On("FindByID", mock.Anything, int64(7)).Return(stored, nil)
	mockRepo.On("Save", mock.Anything, stored).Return(nil)
	mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	sh, err := service.UpdateStatus(context.Background(), 7, shipment.StatusProcessing)

	assert.NoError(t, err)
	assert.Equal(t, shipment.StatusProcessing, sh.Status)
	mockPublisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestShipmentServiceUpdateStatusInvalidTransition(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	service := NewShipmentService(mockRepo)

	stored, err := shipment.NewShipment(100, shipment.TypeSimple)
	assert.NoError(t, err)
	assert.NoError(t, stored.UpdateStatus(shipment.StatusShipped))
	stored.ClearDomainEvents()

	mockRepo.On("FindByID", mock.Anything, int64(7)).Return(stored, nil)

	sh, err := service.UpdateStatus(context.Background(), 7, shipment.StatusDraft)

	assert.Nil(t, sh)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot move shipment")
	mockRepo.AssertNotCalled(t, "Save")
}

func TestShipmentServiceSetPackaging(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	service := NewShipmentService(mockRepo)

	stored, err := shipment.NewShipment(100, shipment.TypeSimple)
	assert.NoError(t, err)
	stored.ClearDomainEvents()

	mockRepo.On("FindByID", mock.Anything, int64(7)).Return(stored, nil)
	mockRepo.On("Save", mock.Anything, stored).Return(nil)

	sh, err := service.SetPackaging(context.Background(), 7, 3, decimal.NewFromFloat(0.25))

	assert.NoError(t, err)
	assert.Equal(t, int64(3), sh.PackagingID)
	assert.True(t, sh.PackagingWeight.Equal(decimal.NewFromFloat(0.25)))
}

func TestShipmentServiceList(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	service := NewShipmentService(mockRepo)
	filter := shared.DefaultFilter()

	first, err := shipment.NewShipment(100, shipment.TypeSimple)
	assert.NoError(t, err)
	mockRepo.On("FindAll", mock.Anything, filter).Return([]shipment.Shipment{*first}, nil)
	mockRepo.On("Count", mock.Anything, filter).Return(int64(42), nil)

	page, err := service.List(context.Background(), filter)

	assert.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(42), page.Total)
	assert.Equal(t, 1, page.Page)
}

func TestShipmentServiceListZeroFilterUsesDefaults(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	service := NewShipmentService(mockRepo)

	first, err := shipment.NewShipment(100, shipment.TypeSimple)
	assert.NoError(t, err)

	normalized := shared.Filter{Page: 1, PageSize: 20}
	mockRepo.On("FindAll", mock.Anything, normalized).Return([]shipment.Shipment{*first}, nil)
	mockRepo.On("Count", mock.Anything, normalized).Return(int64(1), nil)

	page, err := service.List(context.Background(), shared.Filter{})

	assert.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)
	mockRepo.AssertExpectations(t)
}

func TestShipmentServiceDelete(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	service := NewShipmentService(mockRepo)

	mockRepo.On("Delete", mock.Anything, int64(7)).Return(nil)

	assert.NoError(t, service.Delete(context.Background(), 7))
	mockRepo.AssertExpectations(t)
}

func TestShipmentServicePublishFailureIsNonFatal(t *testing.T) {
	mockRepo := new(MockShipmentRepository)
	mockPublisher := new(MockEventPublisher)
	service := NewShipmentService(mockRepo)
	service.SetEventPublisher(mockPublisher)

	mockRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus down"))

	sh, err := service.Create(context.Background(), 100, shipment.TypeSimple)

	assert.NoError(t, err)
	assert.NotNil(t, sh)
}

package service

import (
	"context"
	"errors"

	"godha/internal/domain"
	"godha/internal/repository"
	"godha/internal/validation"
)

// OrderService реализует логику заказов: оформление, выборка, смена статуса
type OrderService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	tx       repository.TxManager
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository, tx repository.TxManager) *OrderService {
	return &OrderService{products: products, orders: orders, tx: tx}
}

var (
	ErrNotEnoughStock = errors.New("not enough stock")
	ErrInvalidState   = errors.New("invalid state")
)

// Create списывает запас по каждой известной позиции и сохраняет заказ атомарно.
func (s *OrderService) Create(ctx context.Context, in validation.OrderInput) (*domain.Order, error) {
	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// reserve stock for items that reference a catalog product; stale cart
		// items whose ids no longer resolve still order fine
		productCopies := make(map[string]*domain.Product)
		for _, it := range in.Items {
			if it.ID == "" {
				continue
			}
			p, err := s.products.GetByID(ctx, it.ID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return err
			}
			if p.Stock < it.Quantity {
				return ErrNotEnoughStock
			}
			p.Stock -= it.Quantity
			productCopies[p.ID] = p
		}
		for _, p := range productCopies {
			if err := s.products.Update(ctx, p); err != nil {
				return err
			}
		}

		o := domain.Order{
			UserID:          in.UserID,
			UserEmail:       in.UserEmail,
			Items:           in.Items,
			Total:           in.Total,
			ShippingAddress: in.ShippingAddress,
			PaymentMethod:   in.PaymentMethod,
			PaymentStatus:   domain.PaymentStatus(in.PaymentStatus),
			OrderStatus:     domain.OrderStatusProcessing,
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID возвращает заказ по id
func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	return s.orders.List(ctx, f)
}

// UpdateStatus меняет orderStatus и/или paymentStatus. Пустое значение — поле не трогаем.
func (s *OrderService) UpdateStatus(ctx context.Context, id, orderStatus, paymentStatus string) (*domain.Order, error) {
	if id == "" || (orderStatus == "" && paymentStatus == "") {
		return nil, ErrInvalidInput
	}
	if orderStatus != "" && !domain.ValidOrderStatus(orderStatus) {
		return nil, ErrInvalidState
	}
	if paymentStatus != "" && !domain.ValidPaymentStatus(paymentStatus) {
		return nil, ErrInvalidState
	}

	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if orderStatus != "" {
			o.OrderStatus = domain.OrderStatus(orderStatus)
		}
		if paymentStatus != "" {
			o.PaymentStatus = domain.PaymentStatus(paymentStatus)
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

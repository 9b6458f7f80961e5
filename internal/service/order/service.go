package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/mediconsult-api/internal/email"
	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
)

var (
	ErrMissingFields = errors.New("medicines, quantity, address and phone are required")
	ErrEmptyMessage  = errors.New("message must not be blank")
	ErrInvalidStatus = errors.New("invalid order status")
)

type Service struct {
	orders repository.OrderRepository
	seen   repository.SeenRepository
	mailer email.Service
}

func NewService(orders repository.OrderRepository, seen repository.SeenRepository, mailer email.Service) *Service {
	if mailer == nil {
		mailer = email.NoopService{}
	}
	return &Service{orders: orders, seen: seen, mailer: mailer}
}

// PlaceOrder records a pending order for the patient.
func (s *Service) PlaceOrder(ctx context.Context, patient model.PatientProfile, req *model.PlaceOrderRequest) (*model.MedicineOrder, error) {
	order := &model.MedicineOrder{
		PatientID:   patient.ID,
		PatientName: patient.Name,
		Medicines:   strings.TrimSpace(req.Medicines),
		Quantity:    strings.TrimSpace(req.Quantity),
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		Status:      model.OrderStatusPending,
		Messages:    []model.OrderMessage{},
		CreatedAt:   model.NowMillis(),
	}
	if order.Medicines == "" || order.Quantity == "" || order.Address == "" || order.Phone == "" {
		return nil, ErrMissingFields
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.mailer.SendOrderPlaced(ctx, *order); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("order notification failed")
	}
	return order, nil
}

// SendMessage appends text to the order's thread. A patient may only write
// on their own orders; owner is empty for the admin. An order that no longer
// exists is a no-op reported by delivered == false.
func (s *Service) SendMessage(ctx context.Context, orderID string, sender model.Sender, owner string, text string) (order *model.MedicineOrder, delivered bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false, ErrEmptyMessage
	}

	msg := model.OrderMessage{Sender: sender, Text: text, Timestamp: model.NowMillis()}
	order, err = s.orders.Update(ctx, orderID, func(o *model.MedicineOrder) error {
		if owner != "" && o.PatientID != owner {
			return repository.ErrNotFound
		}
		o.Messages = append(o.Messages, msg)
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug().Str("order_id", orderID).Msg("message for unknown order dropped")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to append message: %w", err)
	}

	if sender == model.SenderUser {
		// The patient has read their own message.
		if err := s.MarkSeen(ctx, order.PatientID); err != nil {
			log.Warn().Err(err).Str("user_id", order.PatientID).Msg("failed to reset unread count")
		}
		if err := s.mailer.SendOrderMessage(ctx, *order, msg); err != nil {
			log.Warn().Err(err).Str("order_id", order.ID).Msg("message notification failed")
		}
	}
	return order, true, nil
}

// SetStatus overwrites the status. Any status may follow any other.
func (s *Service) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.MedicineOrder, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	order, err := s.orders.Update(ctx, orderID, func(o *model.MedicineOrder) error {
		o.Status = status
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return order, nil
}

// List returns the orders of patientID, or every order when patientID is
// empty, newest first.
func (s *Service) List(ctx context.Context, patientID string) ([]model.MedicineOrder, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	out := make([]model.MedicineOrder, 0, len(all))
	for _, o := range all {
		if patientID == "" || o.PatientID == patientID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *Service) messageTotal(ctx context.Context, patientID string) (int, error) {
	orders, err := s.List(ctx, patientID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, o := range orders {
		total += len(o.Messages)
	}
	return total, nil
}

// UnreadCount is the number of messages on the patient's orders added since
// the last MarkSeen, floored at zero.
func (s *Service) UnreadCount(ctx context.Context, patientID string) (int, error) {
	total, err := s.messageTotal(ctx, patientID)
	if err != nil {
		return 0, err
	}
	seen, err := s.seen.Get(ctx, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to load seen count: %w", err)
	}
	return max(0, total-seen), nil
}

// MarkSeen snapshots the patient's current message total.
func (s *Service) MarkSeen(ctx context.Context, patientID string) error {
	total, err := s.messageTotal(ctx, patientID)
	if err != nil {
		return err
	}
	if err := s.seen.Set(ctx, patientID, total); err != nil {
		return fmt.Errorf("failed to save seen count: %w", err)
	}
	return nil
}

// Thread returns the patient's orders with the unread counter.
func (s *Service) Thread(ctx context.Context, patientID string) (*model.OrderThread, error) {
	orders, err := s.List(ctx, patientID)
	if err != nil {
		return nil, err
	}
	unread, err := s.UnreadCount(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return &model.OrderThread{Orders: orders, UnreadCount: unread}, nil
}

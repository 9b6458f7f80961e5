package model

// OrderStatus constants
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// Sender of an order message
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAdmin Sender = "admin"
)

type OrderMessage struct {
	Sender    Sender `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// MedicineOrder is a patient's medicine order together with its message thread
type MedicineOrder struct {
	ID          string         `json:"id"`
	PatientID   string         `json:"patientId"`
	PatientName string         `json:"patientName"`
	Medicines   string         `json:"medicines"`
	Quantity    string         `json:"quantity"`
	Address     string         `json:"address"`
	Phone       string         `json:"phone"`
	Status      OrderStatus    `json:"status"`
	Messages    []OrderMessage `json:"messages"`
	CreatedAt   int64          `json:"createdAt"`
}

// PlaceOrderRequest represents order creation parameters
type PlaceOrderRequest struct {
	Medicines string `json:"medicines" binding:"required"`
	Quantity  string `json:"quantity" binding:"required"`
	Address   string `json:"address" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type SetOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required,orderstatus"`
}

// OrderThread is a patient's order list with the unread counter
type OrderThread struct {
	Orders      []MedicineOrder `json:"orders"`
	UnreadCount int             `json:"unreadCount"`
}

// MessageResult reports whether a message reached an order. Messages for an
// order that no longer exists are dropped.
type MessageResult struct {
	Delivered bool           `json:"delivered"`
	Order     *MedicineOrder `json:"order,omitempty"`
}

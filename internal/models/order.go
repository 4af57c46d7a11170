package models

type Address struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Line1     string `json:"line1"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `json:"is_default"`
}

type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	CreatedAt   string      `json:"created_at"`
	Items       []OrderItem `json:"items"`
}

type OrderItem struct {
	ID         int64   `json:"id"`
	OrderID    int64   `json:"order_id"`
	MedicineID int64   `json:"medicine_id"`
	Quantity   int64   `json:"quantity"`
	Price      float64 `json:"price"`
}

const OrderStatusPending = "pending"

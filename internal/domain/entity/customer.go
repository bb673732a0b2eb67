package entity

// Customer is a loyalty customer found by phone number.
type Customer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	TotalPoints int    `json:"total_points"`
}

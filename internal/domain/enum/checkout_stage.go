package enum

import "encoding/json"

// CheckoutStage tracks how far a sale submission has progressed.
type CheckoutStage int

const (
	CheckoutStageIdle             CheckoutStage = 0
	CheckoutStageSaleCreated      CheckoutStage = 1
	CheckoutStagePaymentsRecorded CheckoutStage = 2
	CheckoutStageSaleCompleted    CheckoutStage = 3
)

func (s CheckoutStage) String() string {
	names := [...]string{"idle", "sale_created", "payments_recorded", "sale_completed"}
	if int(s) < 0 || int(s) >= len(names) {
		return "idle"
	}
	return names[s]
}

func (s CheckoutStage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is the instrument a tender is paid with.
type PaymentMethod int

const (
	PaymentMethodCash        PaymentMethod = 0
	PaymentMethodMobileMoney PaymentMethod = 1
	PaymentMethodCard        PaymentMethod = 2
)

var paymentMethodNames = [...]string{"cash", "mobile_money", "card"}

// PaymentMethods lists the supported methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodCard}
}

func (m PaymentMethod) String() string {
	if int(m) < 0 || int(m) >= len(paymentMethodNames) {
		return "unknown"
	}
	return paymentMethodNames[m]
}

// IsValid reports whether m is one of the supported methods.
func (m PaymentMethod) IsValid() bool {
	return int(m) >= 0 && int(m) < len(paymentMethodNames)
}

// ParsePaymentMethod accepts the wire names plus a few aliases used by tills ("mpesa", "mobile").
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return PaymentMethodCash, nil
	case "mobile_money", "mobile-money", "mobilemoney", "mobile", "mpesa":
		return PaymentMethodMobileMoney, nil
	case "card":
		return PaymentMethodCard, nil
	}
	return 0, fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !PaymentMethod(i).IsValid() {
			return fmt.Errorf("unknown payment method %d", i)
		}
		*m = PaymentMethod(i)
		return nil
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

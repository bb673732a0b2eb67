package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DiscountType tells how a discount value is interpreted.
type DiscountType int

const (
	DiscountTypePercentage DiscountType = 0
	DiscountTypeFixed      DiscountType = 1
)

func (t DiscountType) String() string {
	names := [...]string{"percentage", "fixed"}
	if int(t) < 0 || int(t) >= len(names) {
		return "fixed"
	}
	return names[t]
}

func (t DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = DiscountType(i)
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "percentage", "percent":
		*t = DiscountTypePercentage
	case "fixed", "amount":
		*t = DiscountTypeFixed
	default:
		return fmt.Errorf("unknown discount type %q", str)
	}
	return nil
}

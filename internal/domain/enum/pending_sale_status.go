package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PendingSaleStatus is the local journal status of a sale created by a terminal.
type PendingSaleStatus int

const (
	PendingSaleStatusPending   PendingSaleStatus = 0
	PendingSaleStatusCompleted PendingSaleStatus = 1
	PendingSaleStatusAbandoned PendingSaleStatus = 2
)

func (s PendingSaleStatus) String() string {
	names := [...]string{"Pending", "Completed", "Abandoned"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

// ParsePendingSaleStatus accepts the status name in any case.
func ParsePendingSaleStatus(str string) (PendingSaleStatus, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "pending":
		return PendingSaleStatusPending, nil
	case "completed":
		return PendingSaleStatusCompleted, nil
	case "abandoned":
		return PendingSaleStatusAbandoned, nil
	}
	return 0, fmt.Errorf("unknown pending sale status %q", str)
}

func (s PendingSaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PendingSaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PendingSaleStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = PendingSaleStatusPending
	case "Completed":
		*s = PendingSaleStatusCompleted
	case "Abandoned":
		*s = PendingSaleStatusAbandoned
	}
	return nil
}

func (s PendingSaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PendingSaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PendingSaleStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PendingSaleStatus(v)
	case int:
		*s = PendingSaleStatus(v)
	}
	return nil
}

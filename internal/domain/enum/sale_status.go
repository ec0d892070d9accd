package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SaleStatus represents the delivery/payment state of a sale
type SaleStatus string

const (
	SaleStatusOnDelivery    SaleStatus = "on-delivery"
	SaleStatusCancelled     SaleStatus = "cancelled"
	SaleStatusPaidInAdvance SaleStatus = "paid-in-advance"
)

var titleCaser = cases.Title(language.Und)

// SaleStatuses lists every accepted status in display order
func SaleStatuses() []SaleStatus {
	return []SaleStatus{SaleStatusOnDelivery, SaleStatusCancelled, SaleStatusPaidInAdvance}
}

func (s SaleStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusOnDelivery, SaleStatusCancelled, SaleStatusPaidInAdvance:
		return true
	}
	return false
}

// Title renders the status for reports, e.g. "On-Delivery"
func (s SaleStatus) Title() string {
	return titleCaser.String(string(s))
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status := SaleStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid sale status %q", str)
	}
	*s = status
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = SaleStatusOnDelivery
	case string:
		*s = SaleStatus(v)
	case []byte:
		*s = SaleStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into SaleStatus", value)
	}
	return nil
}

package value

import "fmt"

// DealStatus — закрытое перечисление статусов сделки.
type DealStatus string

const (
	StatusOpen          DealStatus = "open"
	StatusInProgress    DealStatus = "in_progress"
	StatusSentToSupport DealStatus = "sent_to_support"
	StatusDone          DealStatus = "done"
	StatusDisputed      DealStatus = "disputed"
)

func ParseDealStatus(s string) (DealStatus, error) {
	status := DealStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid deal status %q", s)
	}

	return status, nil
}

func (s DealStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusSentToSupport, StatusDone, StatusDisputed:
		return true
	}

	return false
}

// HoldsFunds сообщает, должны ли у сделки в этом статусе быть
// заблокированные средства.
func (s DealStatus) HoldsFunds() bool {
	return s == StatusInProgress || s == StatusSentToSupport
}

// IsTerminal: из done и disputed переходов нет. Спор замораживает средства
// до внешнего разбирательства, автоматического возврата не предусмотрено.
func (s DealStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusDisputed
}

func (s DealStatus) String() string {
	return string(s)
}

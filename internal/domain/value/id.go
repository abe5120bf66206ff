package value

import (
	"fmt"
	"regexp"
)

// PartyID и DealID — отдельные типы, чтобы случайно не перепутать
// идентификаторы участников и сделок.
type PartyID string

func (p PartyID) String() string {
	return string(p)
}

func ParsePartyID(s string) (PartyID, error) {
	if s == "" {
		return "", fmt.Errorf("party id is empty")
	}

	return PartyID(s), nil
}

type DealID string

// Формат генерируемых идентификаторов: "#A7342".
var dealIDPattern = regexp.MustCompile(`^#[A-Z]\d{4}$`)

func (d DealID) String() string {
	return string(d)
}

func ParseDealID(s string) (DealID, error) {
	if !dealIDPattern.MatchString(s) {
		return "", fmt.Errorf("invalid deal id %q", s)
	}

	return DealID(s), nil
}

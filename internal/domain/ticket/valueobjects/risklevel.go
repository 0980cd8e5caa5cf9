package valueobjects

import (
	"fmt"
	"strings"
)

// RiskLevel is the complaint-risk band of a single ticket.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "safe"
	RiskWarn   RiskLevel = "warn"
	RiskDanger RiskLevel = "danger"
)

var validRiskLevels = map[RiskLevel]bool{
	RiskSafe:   true,
	RiskWarn:   true,
	RiskDanger: true,
}

func (l RiskLevel) String() string {
	return string(l)
}

func (l RiskLevel) IsValid() bool {
	return validRiskLevels[l]
}

func NewRiskLevel(raw string) (RiskLevel, error) {
	level := RiskLevel(strings.ToLower(strings.TrimSpace(raw)))
	if !level.IsValid() {
		return "", fmt.Errorf("invalid risk level: %s", raw)
	}
	return level, nil
}

// CustomerRiskLevel is the aggregate band across a requester's history.
type CustomerRiskLevel string

const (
	CustomerNormal  CustomerRiskLevel = "normal"
	CustomerCaution CustomerRiskLevel = "caution"
	CustomerDanger  CustomerRiskLevel = "danger"
)

var validCustomerRiskLevels = map[CustomerRiskLevel]bool{
	CustomerNormal:  true,
	CustomerCaution: true,
	CustomerDanger:  true,
}

func (l CustomerRiskLevel) String() string {
	return string(l)
}

func (l CustomerRiskLevel) IsValid() bool {
	return validCustomerRiskLevels[l]
}

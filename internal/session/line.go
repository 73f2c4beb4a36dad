package session

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Allowed values for the enumerated line fields.
var (
	ServiceTypes   = []string{"urban", "intermunicipal", "express"}
	VehicleModes   = []string{"conventional", "articulated", "brt", "minibus"}
	FleetTypes     = []string{"standard", "padron", "articulated", "electric"}
	PaymentTypes   = []string{"cash", "transit_card", "single_ticket", "qr_code", "contactless"}
	Accessibility  = []string{"wheelchair_lift", "low_floor", "reserved_seats", "audio_signals"}
	SchedulePeriod = []string{"weekday_peak", "weekday_offpeak", "saturday", "sunday_holiday", "night"}
)

type OperatingHours struct {
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`
}

type SpecialSchedule struct {
	Period           string `json:"period"`
	FrequencyMinutes int    `json:"frequencyMinutes"`
}

// LineMetadata describes the bus line a drawn route belongs to.
type LineMetadata struct {
	Number           string            `json:"number"`
	Name             string            `json:"name"`
	ServiceType      string            `json:"serviceType"`
	VehicleMode      string            `json:"vehicleMode,omitempty"`
	OperatingHours   *OperatingHours   `json:"operatingHours,omitempty"`
	FullFare         float64           `json:"fullFare"`
	PaymentTypes     []string          `json:"paymentTypes"`
	Integrations     []string          `json:"integrations,omitempty"`
	FleetType        string            `json:"fleetType,omitempty"`
	Capacity         int               `json:"capacity,omitempty"`
	Accessibility    []string          `json:"accessibility,omitempty"`
	Operator         string            `json:"operator"`
	FrequencyMinutes int               `json:"frequencyMinutes"`
	SpecialSchedules []SpecialSchedule `json:"specialSchedules,omitempty"`
}

// ValidationError lists every rejected field.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid line metadata: " + strings.Join(e.Problems, "; ")
}

// Validate checks required fields and enumerated values.
func (m LineMetadata) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(m.Number) == "" {
		add("number is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		add("name is required")
	}
	if m.ServiceType == "" {
		add("serviceType is required")
	} else if !slices.Contains(ServiceTypes, m.ServiceType) {
		add("serviceType %q is not one of %v", m.ServiceType, ServiceTypes)
	}
	if m.VehicleMode != "" && !slices.Contains(VehicleModes, m.VehicleMode) {
		add("vehicleMode %q is not one of %v", m.VehicleMode, VehicleModes)
	}
	if m.FleetType != "" && !slices.Contains(FleetTypes, m.FleetType) {
		add("fleetType %q is not one of %v", m.FleetType, FleetTypes)
	}
	if m.FullFare < 0 {
		add("fullFare must not be negative")
	}
	if len(m.PaymentTypes) == 0 {
		add("at least one payment type is required")
	}
	for _, pt := range m.PaymentTypes {
		if !slices.Contains(PaymentTypes, pt) {
			add("payment type %q is not one of %v", pt, PaymentTypes)
		}
	}
	for _, a := range m.Accessibility {
		if !slices.Contains(Accessibility, a) {
			add("accessibility %q is not one of %v", a, Accessibility)
		}
	}
	if strings.TrimSpace(m.Operator) == "" {
		add("operator is required")
	}
	if m.FrequencyMinutes < 0 {
		add("frequencyMinutes must not be negative")
	}
	if m.Capacity < 0 {
		add("capacity must not be negative")
	}
	if h := m.OperatingHours; h != nil {
		if _, err := time.Parse("15:04", h.Start); err != nil {
			add("operatingHours.start %q is not HH:MM", h.Start)
		}
		if _, err := time.Parse("15:04", h.End); err != nil {
			add("operatingHours.end %q is not HH:MM", h.End)
		}
	}
	for i, ss := range m.SpecialSchedules {
		if !slices.Contains(SchedulePeriod, ss.Period) {
			add("specialSchedules[%d].period %q is not one of %v", i, ss.Period, SchedulePeriod)
		}
		if ss.FrequencyMinutes < 0 {
			add("specialSchedules[%d].frequencyMinutes must not be negative", i)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

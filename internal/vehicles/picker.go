package vehicles

import (
	"context"
	"fmt"
	"strings"

	"github.com/garage-vn/storefront/internal/api"
	"github.com/garage-vn/storefront/internal/ui"
	"github.com/garage-vn/storefront/pkg/logger"
)

// Option is one entry of the vehicle select element.
type Option struct {
	ID       string
	Label    string
	Selected bool
	Disabled bool
}

// Select is the vehicle dropdown the picker renders into.
type Select interface {
	SetOptions(options []Option)
}

// API is the slice of the storefront client the picker needs.
type API interface {
	ListVehicles(ctx context.Context, customerID string) ([]api.Vehicle, error)
}

// Picker loads a customer's vehicles into a select element, walking the same
// states the storefront form shows: choose-customer placeholder, loading,
// loaded (possibly empty), and load error.
type Picker struct {
	client   API
	sel      Select
	messages ui.Messages
	logg     *logger.Logger
}

func NewPicker(client API, sel Select, messages ui.Messages, logg *logger.Logger) *Picker {
	return &Picker{client: client, sel: sel, messages: messages, logg: logg}
}

// Load refreshes the dropdown for the given customer, keeping
// selectedVehicleID selected when it is still present. An empty customer id
// resets the dropdown to the choose-customer placeholder without a request.
func (p *Picker) Load(ctx context.Context, customerID, selectedVehicleID string) error {
	if p == nil || p.sel == nil {
		return nil
	}

	if strings.TrimSpace(customerID) == "" {
		p.sel.SetOptions([]Option{{Label: p.messages.ChooseCustomer}})
		return nil
	}

	p.sel.SetOptions([]Option{{Label: p.messages.LoadingVehicles}})

	vehicles, err := p.client.ListVehicles(ctx, customerID)
	if err != nil {
		if p.logg != nil {
			p.logg.Error(ctx, "vehicle lookup failed", err)
		}
		p.sel.SetOptions([]Option{{Label: p.messages.VehicleLoadError}})
		return err
	}

	options := []Option{{Label: p.messages.ChooseVehicle}}
	if len(vehicles) == 0 {
		options = append(options, Option{Label: p.messages.NoVehicles, Disabled: true})
	}
	for _, v := range vehicles {
		options = append(options, Option{
			ID:       v.ID,
			Label:    fmt.Sprintf("%s (%s)", v.LicensePlate, v.VehicleType),
			Selected: v.ID == selectedVehicleID,
		})
	}
	p.sel.SetOptions(options)
	return nil
}

package receiveform

import (
	"context"
	"strings"
)

// ReceiveType selects how the customer hands the vehicle over.
type ReceiveType string

const (
	ReceiveWalkIn      ReceiveType = "walk_in"
	ReceiveAppointment ReceiveType = "appointment"
)

// Visibility is a form field or section that can be shown or hidden.
type Visibility interface {
	SetVisible(visible bool)
}

// VehicleLoader refreshes the vehicle dropdown for a customer.
type VehicleLoader interface {
	Load(ctx context.Context, customerID, selectedVehicleID string) error
}

// Fields groups the dependent fields of the vehicle-receive form.
type Fields struct {
	AppointmentSection Visibility
	WalkInSection      Visibility

	CustomerSelect   Visibility
	NewCustomerName  Visibility
	NewCustomerPhone Visibility

	VehicleSelect   Visibility
	NewVehiclePlate Visibility
	NewVehicleType  Visibility
}

// Controller drives the show/hide dependencies of the receive form and keeps
// the vehicle dropdown in step with the selected customer.
type Controller struct {
	fields Fields
	picker VehicleLoader

	receiveType       ReceiveType
	newCustomer       bool
	newVehicle        bool
	customerID        string
	selectedVehicleID string
}

func NewController(fields Fields, picker VehicleLoader) *Controller {
	return &Controller{fields: fields, picker: picker, receiveType: ReceiveWalkIn}
}

// Init applies the initial visibility state and, when the form is editing an
// existing record, reloads the vehicle list preserving the stored selection.
func (c *Controller) Init(ctx context.Context, customerID, vehicleID string) error {
	c.customerID = strings.TrimSpace(customerID)
	c.selectedVehicleID = strings.TrimSpace(vehicleID)

	c.applyReceiveType()
	c.applyCustomerType()
	c.applyVehicleType()

	if c.customerID != "" && c.picker != nil {
		return c.picker.Load(ctx, c.customerID, c.selectedVehicleID)
	}
	return nil
}

// SetReceiveType switches between the walk-in and appointment sections.
func (c *Controller) SetReceiveType(t ReceiveType) {
	if t != ReceiveAppointment {
		t = ReceiveWalkIn
	}
	c.receiveType = t
	c.applyReceiveType()
}

// SetNewCustomer toggles between the existing-customer select and the
// new-customer fields.
func (c *Controller) SetNewCustomer(isNew bool) {
	c.newCustomer = isNew
	c.applyCustomerType()
}

// SetNewVehicle toggles between the existing-vehicle select and the
// new-vehicle fields. Ticking "new vehicle" clears the current selection.
func (c *Controller) SetNewVehicle(isNew bool) {
	c.newVehicle = isNew
	if isNew {
		c.selectedVehicleID = ""
	}
	c.applyVehicleType()
}

// SelectCustomer records the chosen customer and reloads the vehicle list,
// preserving the currently selected vehicle when it survives the reload.
func (c *Controller) SelectCustomer(ctx context.Context, customerID string) error {
	c.customerID = strings.TrimSpace(customerID)
	if c.picker == nil {
		return nil
	}
	return c.picker.Load(ctx, c.customerID, c.selectedVehicleID)
}

// SelectVehicle records the chosen vehicle.
func (c *Controller) SelectVehicle(vehicleID string) {
	c.selectedVehicleID = strings.TrimSpace(vehicleID)
}

// SelectedVehicleID exposes the current selection.
func (c *Controller) SelectedVehicleID() string {
	return c.selectedVehicleID
}

func (c *Controller) applyReceiveType() {
	appointment := c.receiveType == ReceiveAppointment
	setVisible(c.fields.AppointmentSection, appointment)
	setVisible(c.fields.WalkInSection, !appointment)
}

func (c *Controller) applyCustomerType() {
	setVisible(c.fields.CustomerSelect, !c.newCustomer)
	setVisible(c.fields.NewCustomerName, c.newCustomer)
	setVisible(c.fields.NewCustomerPhone, c.newCustomer)
}

func (c *Controller) applyVehicleType() {
	setVisible(c.fields.VehicleSelect, !c.newVehicle)
	setVisible(c.fields.NewVehiclePlate, c.newVehicle)
	setVisible(c.fields.NewVehicleType, c.newVehicle)
}

func setVisible(v Visibility, visible bool) {
	if v != nil {
		v.SetVisible(visible)
	}
}

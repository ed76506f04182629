package ui

// Navigator abstracts full-page navigation. Redirect and Reload are terminal
// for the current page: any in-flight work is abandoned by the host.
type Navigator interface {
	Redirect(url string)
	Reload()
}

// Confirmer presents a blocking yes/no prompt and reports the choice. The
// prompt blocks further action dispatch until dismissed.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Alerter surfaces a message to the user.
type Alerter interface {
	Alert(msg string)
}

// Messages holds the localized prompt and alert strings used by the cart and
// payment flows.
type Messages struct {
	ConfirmDeleteItem string
	ConfirmPay        string
	PaymentFailed     string
	SystemError       string
	LoadingVehicles   string
	ChooseVehicle     string
	ChooseCustomer    string
	NoVehicles        string
	VehicleLoadError  string
}

// DefaultMessages returns the Vietnamese strings shipped with the storefront.
func DefaultMessages() Messages {
	return Messages{
		ConfirmDeleteItem: "Bạn chắc chắn xoá sản phẩm này không?",
		ConfirmPay:        "Bạn chắc chắn thanh toán không?",
		PaymentFailed:     "Thanh toán thất bại!",
		SystemError:       "Lỗi hệ thống, vui lòng thử lại sau!",
		LoadingVehicles:   "-- Đang tải... --",
		ChooseVehicle:     "-- Chọn xe --",
		ChooseCustomer:    "-- Chọn khách hàng trước --",
		NoVehicles:        "Khách hàng chưa có xe nào",
		VehicleLoadError:  "Lỗi tải xe",
	}
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/garage-vn/storefront/pkg/errors"
)

// PaySuccessCode is the sentinel the payment endpoints return on success.
const PaySuccessCode = 200

// PaymentMethodCash is the implicit method for the generic checkout variant.
const PaymentMethodCash = "CASH"

// PayResult is the shared result contract of all three payment endpoints. An
// empty PayURL on success means the caller reloads the page instead of
// navigating to the gateway.
type PayResult struct {
	Code   int    `json:"code"`
	PayURL string `json:"pay_url,omitempty"`
	Msg    string `json:"msg,omitempty"`
}

// OK reports whether the result carries the success code.
func (r PayResult) OK() bool {
	return r.Code == PaySuccessCode
}

// PayRequest is the generic cash-checkout payload.
type PayRequest struct {
	RepairFormID  string `json:"repair_form_id,omitempty"`
	PaymentMethod string `json:"payment_method"`
}

// Pay starts the generic cash checkout.
func (c *Client) Pay(ctx context.Context, repairFormID string) (PayResult, error) {
	req := PayRequest{RepairFormID: strings.TrimSpace(repairFormID), PaymentMethod: PaymentMethodCash}
	var result PayResult
	if err := c.do(ctx, http.MethodPost, "/api/pay", req, &result); err != nil {
		return PayResult{}, err
	}
	return result, nil
}

// PayRepairForm starts gateway payment for one repair-form invoice.
func (c *Client) PayRepairForm(ctx context.Context, repairFormID string) (PayResult, error) {
	trimmed := strings.TrimSpace(repairFormID)
	if trimmed == "" {
		return PayResult{}, pkgerrors.New(pkgerrors.CodeValidation, "repair form id is required")
	}
	path := fmt.Sprintf("/api/pay_repair/%s", url.PathEscape(trimmed))
	body := struct {
		RepairFormID string `json:"repair_form_id"`
	}{RepairFormID: trimmed}

	var result PayResult
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return PayResult{}, err
	}
	return result, nil
}

// PaySparePartOrder starts gateway payment for the session's spare-part cart.
func (c *Client) PaySparePartOrder(ctx context.Context) (PayResult, error) {
	var result PayResult
	if err := c.do(ctx, http.MethodPost, "/api/pay_spare_part", nil, &result); err != nil {
		return PayResult{}, err
	}
	return result, nil
}

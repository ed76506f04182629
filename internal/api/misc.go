package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/garage-vn/storefront/pkg/errors"
)

// AddCommentRequest posts a comment on a spare part's page.
type AddCommentRequest struct {
	SparePartID string `json:"sparepart_id"`
	Content     string `json:"content"`
}

// CommentResult carries the comment endpoint's outcome fields.
type CommentResult struct {
	Status int    `json:"status"`
	ErrMsg string `json:"err_msg,omitempty"`
}

// Vehicle is one entry of the customer's vehicle list.
type Vehicle struct {
	ID           string `json:"id"`
	LicensePlate string `json:"license_plate"`
	VehicleType  string `json:"vehicle_type"`
}

// AddComment submits a comment for the given spare part.
func (c *Client) AddComment(ctx context.Context, req AddCommentRequest) (CommentResult, error) {
	var result CommentResult
	if strings.TrimSpace(req.SparePartID) == "" {
		return result, pkgerrors.New(pkgerrors.CodeValidation, "spare part id is required")
	}
	if err := c.do(ctx, http.MethodPost, "/api/comments", req, &result); err != nil {
		return CommentResult{}, err
	}
	return result, nil
}

// ListVehicles fetches the customer's registered vehicles.
func (c *Client) ListVehicles(ctx context.Context, customerID string) ([]Vehicle, error) {
	trimmed := strings.TrimSpace(customerID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	var vehicles []Vehicle
	path := fmt.Sprintf("/vehicles/%s", url.PathEscape(trimmed))
	if err := c.get(ctx, path, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

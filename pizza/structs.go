package pizza

import (
	"pizza_vouchers/vouchers"

	"github.com/ansel1/merry"
)

var ErrTransport = merry.New("transport error")
var ErrAuthFailed = merry.New("authentication failed")
var ErrVoucherListFailed = merry.New("voucher list failed")
var ErrVoucherRedeemFailed = merry.New("voucher redeem failed")

// APIError is the only error information the service provides.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e APIError) String() string {
	return "pizza.de responded with code " + e.Code + ": " + e.Description
}

type authResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
	Token   string    `json:"token"`
}

// The list response duplicates the array under a singular "voucher" key,
// only "vouchers" is consumed.
type listResponse struct {
	Success  bool                  `json:"success"`
	Error    *APIError             `json:"error"`
	Vouchers []vouchers.RawVoucher `json:"vouchers"`
}

type addResponse struct {
	Success  bool                  `json:"success"`
	Error    *APIError             `json:"error"`
	Voucher  string                `json:"voucher"`
	Vouchers []vouchers.RawVoucher `json:"vouchers"`
}

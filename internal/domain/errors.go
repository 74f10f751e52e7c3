package domain

import "errors"

var ErrRecordNotFound = errors.New("record not found")
var ErrInvalidAmount = errors.New("amount must be greater than 0")
var ErrInvalidPINFormat = errors.New("pin must be exactly 4 digits")
var ErrAuthenticationFailed = errors.New("user authentication failed")
var ErrIntegrityViolation = errors.New("user data has been tampered with")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrDispenserShortfall = errors.New("atm does not have enough funds")
var ErrNotAuthorized = errors.New("user must be an admin")
var ErrUnknownLedger = errors.New("bank is not connected to this atm")

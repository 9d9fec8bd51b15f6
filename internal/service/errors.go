package service

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrTerminalNotConfigured = errors.New("terminal not configured")
	ErrInvalidTerminalConfig = errors.New("invalid terminal config")

	ErrPersonNotFound      = errors.New("person not found")
	ErrPersonAlreadyExists = errors.New("person already exists")
	ErrPersonUnderage      = errors.New("person is under the minimum age")
	ErrInvalidIDNumber     = errors.New("invalid id number")

	ErrVoucherCodeRequired = errors.New("voucher code required")
	ErrVoucherAlreadyUsed  = errors.New("voucher already used")
	ErrVoucherRejected     = errors.New("voucher rejected by room")
	ErrVoucherUnreachable  = errors.New("voucher validation endpoint unreachable")

	ErrCooldownActive    = errors.New("entry cooldown active")
	ErrDailyLimitReached = errors.New("daily entry limit reached")

	ErrCouponNotFound         = errors.New("coupon not found")
	ErrCouponAlreadyReprinted = errors.New("coupon already reprinted")
	ErrCouponCodeConflict     = errors.New("coupon code conflict")
	ErrCouponIDsRequired      = errors.New("coupon ids required")
	ErrInvalidCouponSource    = errors.New("invalid coupon source")

	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomInUse      = errors.New("room in use")
	ErrRoomNameExists = errors.New("room name exists")

	ErrInvalidOperationalSlot = errors.New("invalid operational slot")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStaffInactive      = errors.New("staff account inactive")
	ErrStaffNotFound      = errors.New("staff not found")
	ErrUsernameExists     = errors.New("username exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrInvalidToken       = errors.New("invalid token")

	ErrQueueUnavailable = errors.New("queue unavailable")
)

package constants

// 抽奖券来源常量
const (
	CouponSourceEntry    = "entry"
	CouponSourceRegister = "register"
	CouponSourceManual   = "manual"
)

// 员工角色常量
const (
	RoleCashier      = "cashier"
	RoleFloorManager = "floor_manager"
	RoleAdmin        = "admin"
)

// 券码格式常量
const (
	CouponNumberWidth       = 6
	ManualCouponPrefix      = "MN"
	DefaultTerminalLabel    = "TERMINAL"
	LegacyTerminalIdentity  = "default-terminal"
	DefaultCompanyName      = "Casinos Gala"
	DefaultCouponLegend     = "El Juego Compulsivo es Perjudicial para la Salud y Produce Adicción ley 6169"
	DefaultTermsText        = "Participación válida para mayores de 18 años. Un ticket cada dos horas y hasta 10 cupones por día."
	MaxCouponReprints       = 1
	DefaultEntryQuantity    = 1
	VoucherValidationPath   = "/api_app.php"
	VoucherValidationAction = "getTicket"
)

// 异步任务类型常量
const (
	TaskCouponPrint = "coupon:print"
	QueuePrinting   = "printing"
	QueueDefault    = "default"
)

// 审计动作常量
const (
	AuditActionRoomCreate      = "room.create"
	AuditActionRoomUpdate      = "room.update"
	AuditActionRoomDelete      = "room.delete"
	AuditActionSettingsUpdate  = "settings.update"
	AuditActionPrinterUpdate   = "printer.update"
	AuditActionStaffCreate     = "staff.create"
	AuditActionStaffRoleChange = "staff.role_change"
	AuditActionPersonNormalize = "person.normalize_names"
	AuditActionPurge           = "database.purge"
)

// 请求上下文键
const (
	CtxKeyRequestID      = "request_id"
	CtxKeyStaffID        = "staff_id"
	CtxKeyStaffUsername  = "staff_username"
	CtxKeyStaffRole      = "staff_role"
	CtxKeyTerminalConfig = "terminal_config"
)

package i18n

var catalog = map[string]map[string]string{
	LocaleES: {
		"success":                          "Operación exitosa.",
		"error.bad_request":                "Solicitud inválida.",
		"error.validation_failed":          "Revisa los datos ingresados.",
		"error.unauthorized":               "Debes iniciar sesión.",
		"error.token_invalid":              "Sesión inválida o expirada.",
		"error.forbidden":                  "No tienes permisos para esta acción.",
		"error.not_found":                  "Recurso no encontrado.",
		"error.too_many_requests":          "Demasiados intentos, intenta más tarde.",
		"error.rate_limited":               "Demasiados intentos, espera %d segundos.",
		"error.internal":                   "Ocurrió un error inesperado. Intenta nuevamente.",
		"error.terminal_not_configured":    "Configura la terminal antes de continuar.",
		"error.terminal_config_invalid":    "Configuración de terminal inválida.",
		"error.person_not_found":           "Participante no encontrado.",
		"error.person_exists":              "Ya existe un participante con ese DNI",
		"error.person_underage":            "El participante debe ser mayor de 18 años.",
		"error.id_number_invalid":          "DNI inválido.",
		"error.voucher_code_required":      "Ingresa el código del voucher.",
		"error.voucher_used":               "El voucher ya fue utilizado.",
		"error.voucher_remote_timeout":     "Tiempo de espera de la API excedido.",
		"error.voucher_remote_rejected":    "Cupón No Pertenece a la Sala",
		"error.coupon_not_found":           "Cupón no encontrado.",
		"error.coupon_already_reprinted":   "El cupón ya fue reimpreso previamente.",
		"error.coupon_generation_failed":   "No se pudo generar el cupón. Intenta nuevamente.",
		"error.coupon_ids_required":        "Selecciona al menos un cupón.",
		"error.room_not_found":             "Sala no encontrada.",
		"error.room_in_use":                "No se puede eliminar la sala porque tiene registros asociados.",
		"error.room_name_exists":           "Ya existe una sala con ese nombre.",
		"error.operational_slot_invalid":   "Horario inválido: usa el formato HH:MM y un multiplicador mayor o igual a 1.",
		"error.login_invalid":              "Usuario o contraseña incorrectos.",
		"error.staff_inactive":             "La cuenta está desactivada.",
		"error.username_exists":            "El usuario ya existe.",
		"error.role_invalid":               "Rol inválido.",
		"error.password_too_short":         "La contraseña debe tener al menos %d caracteres.",
		"rule.cooldown":                    "Solo puedes escanear un ticket cada dos horas.",
		"rule.daily_limit":                 "Se alcanzó el límite diario de %d cupones para esta persona.",
		"voucher.validation_disabled":      "Validación deshabilitada.",
		"voucher.no_endpoint":              "Sala sin endpoint configurado.",
		"voucher.accepted":                 "Cupón Generado Correctamente",
		"reprint.registered":               "Reimpresión registrada.",
		"entry.issued":                     "Se generaron %d cupón(es).",
		"register.completed":               "Registro completado. Se generaron %d cupones.",
		"manual.created":                   "Cupón manual %s generado.",
		"manual.printed":                   "Se enviaron %d cupones a impresión.",
		"settings.overlapping_slots":       "Los horarios %s y %s se superponen; se aplicará el primero.",
		"person.names_normalized":          "Se normalizaron %d nombres.",
		"database.purged":                  "Base de datos limpiada.",
	},
	LocaleEN: {
		"success":                          "Success.",
		"error.bad_request":                "Invalid request.",
		"error.validation_failed":          "Please review the submitted data.",
		"error.unauthorized":               "Please sign in.",
		"error.token_invalid":              "Session is invalid or expired.",
		"error.forbidden":                  "You are not allowed to perform this action.",
		"error.not_found":                  "Resource not found.",
		"error.too_many_requests":          "Too many attempts, try again later.",
		"error.rate_limited":               "Too many attempts, wait %d seconds.",
		"error.internal":                   "Unexpected error. Please try again.",
		"error.terminal_not_configured":    "Configure this terminal before continuing.",
		"error.terminal_config_invalid":    "Invalid terminal configuration.",
		"error.person_not_found":           "Participant not found.",
		"error.person_exists":              "A participant with this ID number already exists",
		"error.person_underage":            "Participants must be at least 18 years old.",
		"error.id_number_invalid":          "Invalid ID number.",
		"error.voucher_code_required":      "Enter the voucher code.",
		"error.voucher_used":               "This voucher has already been used.",
		"error.voucher_remote_timeout":     "Voucher API timed out.",
		"error.voucher_remote_rejected":    "Voucher does not belong to this room",
		"error.coupon_not_found":           "Coupon not found.",
		"error.coupon_already_reprinted":   "This coupon was already reprinted.",
		"error.coupon_generation_failed":   "Could not generate the coupon. Please try again.",
		"error.coupon_ids_required":        "Select at least one coupon.",
		"error.room_not_found":             "Room not found.",
		"error.room_in_use":                "The room cannot be deleted because it has related records.",
		"error.room_name_exists":           "A room with this name already exists.",
		"error.operational_slot_invalid":   "Invalid time slot: use HH:MM and a multiplier of at least 1.",
		"error.login_invalid":              "Invalid username or password.",
		"error.staff_inactive":             "This account is disabled.",
		"error.username_exists":            "Username already exists.",
		"error.role_invalid":               "Invalid role.",
		"error.password_too_short":         "Password must be at least %d characters long.",
		"rule.cooldown":                    "You can only scan one ticket every two hours.",
		"rule.daily_limit":                 "Daily limit of %d coupons reached for this person.",
		"voucher.validation_disabled":      "Validation disabled.",
		"voucher.no_endpoint":              "Room has no validation endpoint configured.",
		"voucher.accepted":                 "Coupon generated successfully",
		"reprint.registered":               "Reprint registered.",
		"entry.issued":                     "%d coupon(s) issued.",
		"register.completed":               "Registration completed. %d coupons issued.",
		"manual.created":                   "Manual coupon %s created.",
		"manual.printed":                   "%d coupons sent to the printer.",
		"settings.overlapping_slots":       "Time slots %s and %s overlap; the first one applies.",
		"person.names_normalized":          "%d names normalized.",
		"database.purged":                  "Database cleared.",
	},
}

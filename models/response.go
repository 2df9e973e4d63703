package models

type RegisterSuccessResponse struct {
	Message string `json:"message" example:"User registered successfully (by admin)"`
	UserID  string `json:"user_id" example:"507f1f77bcf86cd799439011"`
}

type LoginSuccessResponse struct {
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"token" example:"v2.local.Ft9QcxZhJXEYyb7-bMM..."`
	UserID  string `json:"user_id" example:"507f1f77bcf86cd799439011"`
	Role    string `json:"role" example:"teacher"`
}

type SelfMarkSuccessResponse struct {
	Message    string     `json:"message" example:"Attendance marked successfully"`
	Attendance Attendance `json:"attendance"`
}

type TodayStatusResponse struct {
	Marked     bool        `json:"marked" example:"true"`
	Attendance *Attendance `json:"attendance,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request body"`
	Details string `json:"details,omitempty" example:"validation failed"`
}

type ValidationErrorResponse struct {
	Errors string `json:"errors" example:"deadline_time: must be 24-hour HH:MM"`
}

type UnauthorizedErrorResponse struct {
	Error string `json:"error" example:"Invalid or expired token"`
}

type ForbiddenErrorResponse struct {
	Error string `json:"error" example:"Access denied. Admin privileges required"`
}

type NotFoundErrorResponse struct {
	Error string `json:"error" example:"Teacher not found"`
}

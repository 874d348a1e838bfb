package portalsdk

import "time"

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned with 400 when input fails validation.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// LoginRequest carries either a handle or an email as Identifier.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResponse is returned on a successful login. AccessToken is the
// session hand-off token; the portal keeps no server-side session.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int              `json:"expires_in"`
	Identity    IdentityResponse `json:"identity"`
}

type RegisterRequest struct {
	Handle      string `json:"handle"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role"`

	// Student fields
	LRN          string `json:"lrn,omitempty"`
	GradeSection string `json:"grade_section,omitempty"`

	// Teacher fields
	EmployeeID string `json:"employee_id,omitempty"`
	Department string `json:"department,omitempty"`
}

type IdentityResponse struct {
	ID           string     `json:"id"`
	Handle       string     `json:"handle"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name,omitempty"`
	Role         string     `json:"role"`
	Staff        bool       `json:"staff"`
	Active       bool       `json:"active"`
	LRN          string     `json:"lrn,omitempty"`
	GradeSection string     `json:"grade_section,omitempty"`
	EmployeeID   string     `json:"employee_id,omitempty"`
	Department   string     `json:"department,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Preferences struct {
	Theme           string `json:"theme"`
	FontSize        string `json:"font_size"`
	DashboardLayout string `json:"dashboard_layout"`
	AccentColor     string `json:"accent_color"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type SetStatusRequest struct {
	Active bool `json:"active"`
}

type ContentPayload struct {
	Title            string            `json:"title,omitempty"`
	Subtitle         string            `json:"subtitle,omitempty"`
	Body             string            `json:"body,omitempty"`
	Announcement     string            `json:"announcement,omitempty"`
	ImageURL         string            `json:"image_url,omitempty"`
	VideoURL         string            `json:"video_url,omitempty"`
	ExternalVideoURL string            `json:"external_video_url,omitempty"`
	Extra            map[string]string `json:"extra,omitempty"`
}

// ContentRequest creates or updates a record. When IsActive is true the
// record becomes the single active record of its family.
type ContentRequest struct {
	Payload  ContentPayload `json:"payload"`
	IsActive bool           `json:"is_active"`
}

type ContentResponse struct {
	ID        string         `json:"id"`
	Family    string         `json:"family"`
	Payload   ContentPayload `json:"payload"`
	IsActive  bool           `json:"is_active"`
	EmbedID   string         `json:"embed_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ContentListResponse struct {
	Records []ContentResponse `json:"records"`
}

type AuditRecordResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditResponse lists recent records, newest first, plus the number of
// successful logins since midnight UTC.
type AuditResponse struct {
	Records     []AuditRecordResponse `json:"records"`
	LoginsToday int                   `json:"logins_today"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

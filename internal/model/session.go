package model

// Session is the server-side association between a session token and a user.
// It lives only in the session store; the username is cached for display.
type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

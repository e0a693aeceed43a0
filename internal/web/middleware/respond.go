package middleware

import (
	"net/http"

	"github.com/go-chi/render"
)

// problem is the JSON body written when middleware rejects a request.
// It matches the web package's error response shape.
type problem struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

func reject(w http.ResponseWriter, r *http.Request, status int, code, msg, action string) {
	render.Status(r, status)
	render.JSON(w, r, problem{Error: msg, Message: msg, Action: action, Code: code})
}

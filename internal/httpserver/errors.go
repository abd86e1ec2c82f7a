package httpserver

import (
	"strings"

	"github.com/Skotchmaster/portfolio/internal/service"
)

// clientMessage drops the validation sentinel from err so the response
// carries only the reason.
func clientMessage(err error) string {
	msg := err.Error()
	prefix := service.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
)

// HandshakeError is returned when the server refuses the upgrade.
type HandshakeError struct {
	StatusCode int
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("websocket handshake rejected: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *HandshakeError) Unwrap() error {
	return websocket.ErrBadHandshake
}

// IsExpected reports whether err is routine for the hosting environment and
// should stay out of error callbacks.
func IsExpected(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var hs *HandshakeError
	if errors.As(err, &hs) {
		switch hs.StatusCode {
		case http.StatusBadRequest, http.StatusNotFound, http.StatusUpgradeRequired:
			return true
		}
		return false
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

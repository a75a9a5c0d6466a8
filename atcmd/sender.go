package atcmd

import (
	"context"
	"time"
)

// Sender exchanges one command with the modem. *modem.Modem implements it.
//
// Send returns nil when the modem finished its response, modem.ErrTimeout
// when wait elapsed first (out[:n] still holds what arrived), and any other
// error when the exchange itself failed.
type Sender interface {
	Send(ctx context.Context, cmd []byte, out []byte, wait time.Duration) (int, error)
}

//go:generate go tool mockgen -source=sender.go -destination=mock_sender.go -package=atcmd

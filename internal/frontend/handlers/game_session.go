package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/frontend/telnet"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
	"github.com/cory-johannsen/mudtrix/internal/gameserver"
	"github.com/cory-johannsen/mudtrix/internal/storage/postgres"
)

// Prompt is shown whenever the player's output queue runs dry.
const Prompt = "{W> {n"

// play joins the account's character to the game and pumps lines between
// the connection and the game service until the player quits or disconnects.
//
// Precondition: acct must be an authenticated account with a non-empty UID.
// Postcondition: The character has left the game when play returns.
func (h *AuthHandler) play(ctx context.Context, conn *telnet.Conn, acct postgres.Account) error {
	connID := uuid.NewString()
	logger := h.logger.With(
		zap.String("conn_id", connID),
		zap.String("uid", acct.UID),
		zap.String("username", acct.Username),
	)

	p, err := h.game.Join(ctx, gameserver.JoinRequest{
		UID:       acct.UID,
		Name:      acct.Username,
		AccountID: acct.ID,
		Superuser: acct.Superuser(),
		Builder:   acct.Role == postgres.RoleBuilder,
	})
	if err != nil {
		if errors.Is(err, session.ErrPlayerConnected) {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "That character is already playing from another connection."))
			return nil
		}
		logger.Error("joining game", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Failed to enter the game. Please try again later."))
		return fmt.Errorf("joining game: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		forwardOutbox(conn, p.Outbox)
	}()

	err = h.commandLoop(ctx, conn, p.UID)

	// Leave closes the outbox, which ends the forwarder once it has written
	// everything still queued.
	if lerr := h.game.Leave(context.Background(), p.UID); lerr != nil {
		logger.Warn("leaving game", zap.Error(lerr))
	}
	wg.Wait()
	logger.Info("player left the game", zap.Error(err))
	return err
}

// commandLoop reads lines from the connection and dispatches them.
//
// Postcondition: Returns nil when the player quits, ctx.Err() on
// cancellation, or a wrapped read error.
func (h *AuthHandler) commandLoop(ctx context.Context, conn *telnet.Conn, uid string) error {
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Server shutting down. Goodbye!"))
			return ctx.Err()
		default:
		}

		line, err := conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			_ = conn.WritePrompt(Prompt)
			continue
		}
		if h.game.Dispatch(uid, line) {
			return nil
		}
	}
}

// forwardOutbox writes queued lines until the outbox is closed, showing the
// prompt once the queue is empty.
func forwardOutbox(conn *telnet.Conn, out *session.Outbox) {
	lines := out.Lines()
	for line := range lines {
		if err := conn.WriteLine(line); err != nil {
			continue
		}
		if len(lines) == 0 {
			_ = conn.WritePrompt(Prompt)
		}
	}
}

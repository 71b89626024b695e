package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kaixxz/MediNote/internal/constants"
	"github.com/kaixxz/MediNote/internal/model"
	"github.com/kaixxz/MediNote/internal/service"
)

var ErrInvalidAccountID = errors.New("invalid account id")

const (
	TrackIDHeader   = "X-Track-ID"
	AccountIDHeader = "X-Account-ID"

	trackIDKey   = "x_track_id"
	accountIDKey = "account_id"
)

// Track reuses the caller's X-Track-ID or assigns a new one, and echoes it
// back on the response.
func Track() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(TrackIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(trackIDKey, id)
		c.Set(TrackIDHeader, id)

		return c.Next()
	}
}

func TrackID(c *fiber.Ctx) string {
	id, _ := c.Locals(trackIDKey).(string)
	return id
}

// Account resolves the account a request acts on: the X-Account-ID header,
// or defaultID when the header is absent or empty. A header that is blank
// after trimming or longer than the accounts.id column is rejected.
func Account(defaultID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := defaultID
		if raw := c.Get(AccountIDHeader); raw != "" {
			id = strings.TrimSpace(raw)
			if id == "" || len(id) > model.AccountIDMaxLength {
				return service.NewServiceError(constants.ErrCodeInvalidAccountID, ErrInvalidAccountID)
			}
		}

		c.Locals(accountIDKey, id)

		return c.Next()
	}
}

func AccountID(c *fiber.Ctx) string {
	id, _ := c.Locals(accountIDKey).(string)
	return id
}

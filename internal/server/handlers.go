package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	sessiondto "moodooro/internal/modules/session/dto"
	apperrors "moodooro/internal/platform/errors"
)

type handler struct {
	deps Deps
}

func (h handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// listSessions serves GET /api/sessions?limit=&days=.
func (h handler) listSessions(c *fiber.Ctx) error {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return err
	}
	days, err := intQuery(c, "days")
	if err != nil {
		return err
	}
	query := sessiondto.ListQuery{Limit: limit}
	if days > 0 {
		query.After = h.deps.Clock.Now().AddDate(0, 0, -days)
	}
	out, err := h.deps.Sessions.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h handler) getSession(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: session id must be a positive integer", apperrors.ErrInvalidInput)
	}
	out, err := h.deps.Sessions.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// listMoods serves GET /api/moods?session=&days=. A session filter wins
// over days.
func (h handler) listMoods(c *fiber.Ctx) error {
	sessionID, err := intQuery(c, "session")
	if err != nil {
		return err
	}
	days, err := intQuery(c, "days")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	switch {
	case sessionID > 0:
		out, err := h.deps.Moods.BySession(ctx, int64(sessionID))
		if err != nil {
			return err
		}
		return c.JSON(out)
	case days > 0:
		from := h.deps.Clock.Now().AddDate(0, 0, -days)
		out, err := h.deps.Moods.Between(ctx, from, time.Time{})
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
	out, err := h.deps.Moods.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h handler) weekly(c *fiber.Ctx) error {
	out, err := h.deps.Insights.Weekly(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h handler) dashboard(c *fiber.Ctx) error {
	out, err := h.deps.Insights.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func intQuery(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", apperrors.ErrInvalidInput, key)
	}
	return n, nil
}

package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/domain"
	"github.com/spec-kit/guild-setup-service/internal/platform"
	apperrors "github.com/spec-kit/guild-setup-service/pkg/util"
)

// ErrCancelled is returned when the session is cancelled at a prompt boundary.
var ErrCancelled = errors.New("setup cancelled")

// firstCategoryChannels are auto-inserted ahead of the admin's answers for
// the first category only.
var firstCategoryChannels = []string{"announcements"}

// Engine drives the linear prompt sequence and assembles a DesiredConfig.
type Engine struct {
	client  platform.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewEngine constructs the engine. timeout bounds each prompt wait.
func NewEngine(client platform.Client, timeout time.Duration, logger *zap.Logger) *Engine {
	return &Engine{client: client, timeout: timeout, logger: logger}
}

// Run walks the full prompt sequence against the session and returns the
// collected configuration. It does not clear the session's active flag; the
// caller owns session lifecycle.
func (e *Engine) Run(ctx context.Context, session *Session) (*domain.DesiredConfig, error) {
	verifiedRole, err := e.ask(ctx, session, "Enter the name of the Verified role:")
	if err != nil {
		return nil, err
	}

	adminRole, err := e.ask(ctx, session, "Enter the name for the Admin role (this role will have full administrator rights):")
	if err != nil {
		return nil, err
	}

	teamRole, err := e.ask(ctx, session, "Enter the name for the Team role (this role will have moderator abilities):")
	if err != nil {
		return nil, err
	}

	categoryCount, err := e.askCount(ctx, session, "How many additional categories do you want to create?")
	if err != nil {
		return nil, err
	}

	categories := make([]domain.CategorySpec, 0, categoryCount)
	for i := 0; i < categoryCount; i++ {
		name, err := e.ask(ctx, session, fmt.Sprintf("Enter the name for category %d:", i+1))
		if err != nil {
			return nil, err
		}

		var channels []string
		if i == 0 {
			channels = append(channels, firstCategoryChannels...)
		}

		channelCount, err := e.askCount(ctx, session, fmt.Sprintf("How many additional channels do you want in the '%s' category?", name))
		if err != nil {
			return nil, err
		}
		for j := 0; j < channelCount; j++ {
			channel, err := e.ask(ctx, session, fmt.Sprintf("Enter the name for channel %d in '%s' category:", j+1, name))
			if err != nil {
				return nil, err
			}
			channels = append(channels, channel)
		}

		categories = append(categories, domain.CategorySpec{Name: name, ChannelNames: channels})
	}

	roleCount, err := e.askCount(ctx, session, "How many additional roles do you want to create?")
	if err != nil {
		return nil, err
	}

	extraRoles := make([]string, 0, roleCount)
	for i := 0; i < roleCount; i++ {
		role, err := e.ask(ctx, session, fmt.Sprintf("Enter the name for role %d:", i+1))
		if err != nil {
			return nil, err
		}
		extraRoles = append(extraRoles, role)
	}

	cfg := &domain.DesiredConfig{
		VerifiedRoleName: verifiedRole,
		AdminRoleName:    adminRole,
		TeamRoleName:     teamRole,
		Categories:       categories,
		ExtraRoleNames:   extraRoles,
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	return cfg, nil
}

// ask sends one prompt and blocks until the next answer, cancellation, or
// the wait window elapsing.
func (e *Engine) ask(ctx context.Context, session *Session, prompt string) (string, error) {
	if _, err := e.client.SendMessage(ctx, session.ChannelID, prompt); err != nil {
		return "", err
	}

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case answer := <-session.replies:
		return strings.TrimSpace(answer), nil
	case <-timer.C:
		e.logger.Warn("wizard prompt timed out",
			zap.String("guild_id", session.GuildID),
			zap.String("prompt", prompt))
		return "", apperrors.NewPromptTimeout(prompt)
	case <-session.Cancelled():
		return "", ErrCancelled
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// askCount asks for a non-negative integer answer.
func (e *Engine) askCount(ctx context.Context, session *Session, prompt string) (int, error) {
	answer, err := e.ask(ctx, session, prompt)
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(answer)
	if err != nil || count < 0 {
		return 0, apperrors.NewValidationError(
			fmt.Sprintf("expected a non-negative number, got %q", answer), nil)
	}
	return count, nil
}

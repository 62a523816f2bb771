package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Admin command replies. Usage texts double as the error screen for
// malformed arguments: no write happens in that case.
const (
	textVacancyAdded = "Вакансия добавлена."
	usageAddVacancy  = "Использование: /addvac Название|Описание|Город"
	usageToggle      = "Использование: /toggle career или practice"
	usageBlacklist   = "Использование: /blacklist USER_ID"
)

// handleAdmin runs one of the moderation mutations. The caller is already
// verified to be the administrator.
func (r *Router) handleAdmin(ctx context.Context, command, args string) (*Reply, error) {
	switch command {
	case "addvac":
		return r.addVacancy(ctx, args)
	case "toggle":
		return r.toggle(ctx, args)
	case "blacklist":
		return r.blacklist(ctx, args)
	}

	return nil, nil
}

func (r *Router) addVacancy(ctx context.Context, args string) (*Reply, error) {
	parts := strings.Split(args, "|")
	if len(parts) != 3 {
		return &Reply{Text: usageAddVacancy}, nil
	}

	title := strings.TrimSpace(parts[0])
	description := strings.TrimSpace(parts[1])
	city := strings.TrimSpace(parts[2])
	if title == "" || description == "" || city == "" {
		return &Reply{Text: usageAddVacancy}, nil
	}

	id, err := r.catalog.CreateVacancy(ctx, title, description, city)
	if err != nil {
		return nil, err
	}

	r.logger.Info("vacancy created",
		zap.Int64("vacancy_id", id),
		zap.String("title", title),
	)

	return &Reply{Text: textVacancyAdded}, nil
}

func (r *Router) toggle(ctx context.Context, args string) (*Reply, error) {
	name := strings.TrimSpace(args)
	if name == "" || strings.ContainsRune(name, ' ') {
		return &Reply{Text: usageToggle}, nil
	}

	enabled, err := r.moderation.FlipToggle(ctx, name)
	if err != nil {
		return nil, err
	}

	r.logger.Info("toggle flipped",
		zap.String("name", name),
		zap.Bool("enabled", enabled),
	)

	return &Reply{Text: fmt.Sprintf("%s = %t", name, enabled)}, nil
}

func (r *Router) blacklist(ctx context.Context, args string) (*Reply, error) {
	userID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return &Reply{Text: usageBlacklist}, nil
	}

	if err := r.moderation.AddToBlacklist(ctx, userID); err != nil {
		return nil, err
	}

	r.logger.Info("user blacklisted", zap.Int64("user_id", userID))

	return &Reply{Text: fmt.Sprintf("Пользователь %d в чёрном списке", userID)}, nil
}

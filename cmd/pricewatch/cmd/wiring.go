package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pricewatch/pricewatch/internal/config"
	"github.com/pricewatch/pricewatch/internal/fetch"
	"github.com/pricewatch/pricewatch/internal/notify"
)

func buildFetcher(cfg *config.Config) (fetch.Fetcher, error) {
	switch cfg.Fetcher.Backend {
	case "http":
		return fetch.NewHTTPFetcher(
			cfg.Fetcher.HTTP.Endpoint,
			fetch.WithTimeout(cfg.Fetcher.Timeout),
			fetch.WithRateLimit(cfg.Fetcher.RateLimit.PerSecond, cfg.Fetcher.RateLimit.Burst),
		), nil
	case "script":
		return fetch.NewScriptFetcher(
			cfg.Fetcher.Script.Path,
			fetch.WithScriptArgs(cfg.Fetcher.Script.Args...),
			fetch.WithScriptTimeout(cfg.Fetcher.Timeout),
		), nil
	default:
		return nil, fmt.Errorf("unknown fetcher backend %q", cfg.Fetcher.Backend)
	}
}

func buildNotifier(cfg *config.Config, log *slog.Logger) (notify.Notifier, error) {
	switch cfg.Notifications.Backend {
	case "smtp":
		n, err := notify.NewEmailNotifier(
			cfg.Notifications.SMTP.Host,
			cfg.Notifications.SMTP.Port,
			cfg.Notifications.SMTP.Username,
			cfg.Notifications.SMTP.Password,
			cfg.Notifications.SMTP.From,
		)
		if err != nil {
			return nil, fmt.Errorf("creating email notifier: %w", err)
		}
		return n, nil
	case "webhook":
		return notify.NewWebhookNotifier(
			cfg.Notifications.Webhook.URL,
			notify.WithHeaders(cfg.Notifications.Webhook.Headers),
		), nil
	case "none":
		return notify.NewNoOpNotifier(log), nil
	default:
		return nil, fmt.Errorf("unknown notifications backend %q", cfg.Notifications.Backend)
	}
}

package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BucketLimit configures one token bucket: tokens refilled per second and bucket capacity.
type BucketLimit struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

type RateLimitSettings struct {
	InviteCreate BucketLimit `mapstructure:"inviteCreate"`
}

func DefaultRateLimitSettings() RateLimitSettings {
	return RateLimitSettings{
		InviteCreate: BucketLimit{Rate: 0.5, Burst: 20},
	}
}

// RateLimitHolder serves the current rate-limit settings and swaps them when ratelimit.yml changes.
type RateLimitHolder struct {
	current atomic.Value // holds RateLimitSettings
}

func NewRateLimitHolder(cfg Config) (*RateLimitHolder, error) {
	v := viper.New()

	v.SetConfigName("ratelimit")
	v.SetConfigType("yml")
	if path := strings.TrimSpace(cfg.RateLimit.ConfigPath); path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath("/etc/saas-rbac")
	v.AddConfigPath(".")

	defaults := DefaultRateLimitSettings()
	v.SetDefault("ratelimit.inviteCreate.rate", defaults.InviteCreate.Rate)
	v.SetDefault("ratelimit.inviteCreate.burst", defaults.InviteCreate.Burst)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	settings, err := decodeRateLimitSettings(v)
	if err != nil {
		return nil, err
	}

	holder := &RateLimitHolder{}
	holder.current.Store(settings)

	if found {
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeRateLimitSettings(v)
			if err != nil {
				zap.L().Warn("ratelimit config reload ignored", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			zap.L().Info("ratelimit config reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return holder, nil
}

// StaticRateLimitHolder returns a holder that never reloads.
func StaticRateLimitHolder(settings RateLimitSettings) *RateLimitHolder {
	holder := &RateLimitHolder{}
	holder.current.Store(settings)
	return holder
}

func (h *RateLimitHolder) Get() RateLimitSettings {
	if h == nil {
		return DefaultRateLimitSettings()
	}
	return h.current.Load().(RateLimitSettings)
}

func decodeRateLimitSettings(v *viper.Viper) (RateLimitSettings, error) {
	var settings RateLimitSettings
	if err := v.UnmarshalKey("ratelimit", &settings); err != nil {
		return RateLimitSettings{}, err
	}
	if err := validateRateLimitSettings(settings); err != nil {
		return RateLimitSettings{}, err
	}
	return settings, nil
}

func validateRateLimitSettings(settings RateLimitSettings) error {
	if settings.InviteCreate.Rate <= 0 {
		return errors.New("ratelimit.inviteCreate.rate must be positive")
	}
	if settings.InviteCreate.Burst <= 0 {
		return errors.New("ratelimit.inviteCreate.burst must be positive")
	}
	return nil
}

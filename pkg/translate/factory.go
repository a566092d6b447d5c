package translate

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// EngineType represents the type of translation engine to use.
type EngineType string

const (
	// EngineMyMemory uses the free MyMemory API as the backend.
	EngineMyMemory EngineType = "mymemory"
	// EngineLibreTranslate uses a self-hosted LibreTranslate instance.
	EngineLibreTranslate EngineType = "libretranslate"
)

// Config holds configuration for creating a Translator instance.
type Config struct {
	// Engine specifies which translation engine to use.
	Engine EngineType
	// BaseURL overrides the engine's default API endpoint.
	BaseURL string
	// MaxSegmentBytes is the per-request byte budget. Defaults to
	// DefaultMaxSegmentBytes.
	MaxSegmentBytes int
	// Timeout bounds each provider request. Defaults to
	// DefaultProviderTimeout.
	Timeout time.Duration
	// Logger is the logger instance to use. If nil, a default logger is
	// created.
	Logger *logrus.Logger
}

// New creates a Translator wired to the configured backend. This factory
// allows switching between MT engines without changing callers; each engine
// gets its preferred locale table.
func New(cfg Config) (*Translator, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	cfg.Logger.WithFields(logrus.Fields{
		"engine":   cfg.Engine,
		"base_url": cfg.BaseURL,
	}).Info("Creating translator instance")

	var provider Provider
	var locales *LocaleMapper
	switch cfg.Engine {
	case EngineMyMemory:
		provider = NewMyMemoryClient(cfg.BaseURL, cfg.Timeout, cfg.Logger)
		locales = NewLocaleMapper(DefaultLocaleTable)
	case EngineLibreTranslate:
		// LibreTranslate wants bare ISO 639-1 codes, no locale variants.
		provider = NewLibreTranslateClient(cfg.BaseURL, cfg.Timeout, cfg.Logger)
		locales = NewLocaleMapper(nil)
	default:
		cfg.Logger.WithFields(logrus.Fields{
			"engine": cfg.Engine,
		}).Error("Unknown translation engine")
		return nil, fmt.Errorf("unknown translation engine: %s", cfg.Engine)
	}

	return NewTranslator(provider, locales, cfg.MaxSegmentBytes, cfg.Timeout, cfg.Logger), nil
}

// ParseEngineType parses a string into an EngineType.
// Returns an error if the string is not a valid engine type.
func ParseEngineType(s string) (EngineType, error) {
	switch s {
	case "mymemory", "MyMemory", "MYMEMORY":
		return EngineMyMemory, nil
	case "libretranslate", "LibreTranslate", "LIBRETRANSLATE":
		return EngineLibreTranslate, nil
	default:
		return "", fmt.Errorf("unknown engine type: %s (supported: mymemory, libretranslate)", s)
	}
}

// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"fmt"
	"log/syslog"
)

// SyslogConfig configures an optional remote syslog sink for trace logs.
type SyslogConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Protocol string // "udp" or "tcp"
	Tag      string
	Facility int // syslog.Priority facility bits, e.g. 1 = user-level
}

// DefaultSyslogConfig returns a disabled syslog configuration with the
// package's defaults filled in, so callers only need to set Host/Enabled.
func DefaultSyslogConfig() SyslogConfig {
	return SyslogConfig{
		Enabled:  false,
		Port:     514,
		Protocol: "udp",
		Tag:      "pathtrace",
		Facility: 1,
	}
}

// NewSyslogWriter dials a remote syslog collector and returns a writer that
// emits one syslog message per logged line. Missing Port/Protocol/Tag are
// defaulted; a missing Host is an error since there is nothing to dial.
func NewSyslogWriter(cfg SyslogConfig) (*SyslogWriter, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("logging: syslog host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 514
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "udp"
	}
	if cfg.Tag == "" {
		cfg.Tag = "pathtrace"
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	w, err := syslog.Dial(cfg.Protocol, addr, syslog.Priority(cfg.Facility)<<3|syslog.LOG_INFO, cfg.Tag)
	if err != nil {
		return nil, fmt.Errorf("logging: dial syslog %s://%s: %w", cfg.Protocol, addr, err)
	}
	return &SyslogWriter{w: w, cfg: cfg}, nil
}

// SyslogWriter adapts a syslog connection to the Logger's leveled output
// (writeLevel below).
type SyslogWriter struct {
	w   *syslog.Writer
	cfg SyslogConfig
}

func (s *SyslogWriter) writeLevel(level Level, line string) error {
	switch level {
	case LevelDebug:
		return s.w.Debug(line)
	case LevelInfo:
		return s.w.Info(line)
	case LevelWarn:
		return s.w.Warning(line)
	case LevelError:
		return s.w.Err(line)
	default:
		return s.w.Info(line)
	}
}

// Close tears down the syslog connection.
func (s *SyslogWriter) Close() error {
	return s.w.Close()
}

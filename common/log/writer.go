package log

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// WriterConfig sets up a rotating log file. Sizes are in megabytes and
// ages in days.
type WriterConfig struct {
	Filename   string `json:"filename"`
	MaxSize    int    `json:"maxsize"`
	MaxAge     int    `json:"maxage"`
	MaxBackups int    `json:"maxbackups"`
	Compress   bool   `json:"compress"`
}

// AttachFile sends every entry of the global logger, whatever the console
// level, to a rotating file. Nothing is done without a file name.
func AttachFile(cfg *WriterConfig) error {
	if cfg == nil || cfg.Filename == "" {
		return nil
	}
	globalLogger.SetFileWriter(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
		Compress:   cfg.Compress,
	})
	return nil
}

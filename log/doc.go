// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("rendered", slog.String("output", "index.html"))
//
// The zero [Logger] discards all messages. Library code accepts a Logger
// and logs unconditionally; callers decide where, and whether, it goes.
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden, and
// [Logger.With] one that adds attributes to every message.
//
// # Levels
//
// [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn], and [LevelError].
// Trace sits below slog's debug level and is reported as "TRACE".
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON]. With [WithPretty] enabled (the
// default) both are rendered with lipgloss styles, which degrade to plain
// text when the output is not a terminal. Groups are flattened into dotted
// keys in pretty output.
//
// # Package Logger
//
// Package-level functions such as [Info] and [WarnContext] write to a
// default logger on standard error, which [Config] reconfigures.
package log

// Package logger provides structured logging for themedl.
//
// It wraps zerolog behind a small Logger interface so components can take a
// logger as a dependency and tests can swap in NewTestLogger or NewNopLogger.
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("theme", "foo.myshopify.com-42").Info("Listing assets")
//
// Console output is written to stderr. When LoggingConfig.File is set the
// same events are also appended to that file.
package logger

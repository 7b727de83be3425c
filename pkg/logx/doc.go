// Package logx configures modbot's structured logging.
//
// Logger is a small value wrapper around zerolog. Console output is human
// readable with a short caller, the file sink writes JSON, and the optional
// Telegram sink forwards WARN and above to a log chat under a rate limit.
package logx

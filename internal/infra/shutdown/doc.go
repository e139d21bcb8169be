// Package shutdown coordinates orderly exit of the shell.
//
// Hooks registered with OnShutdown run once, in reverse order of
// registration, whether the shell exits through the loop (exit, quit,
// end of input) or through a termination signal.
//
// While a command is running the handler is marked busy and SIGINT is
// left to the foreground command; an idle SIGINT, SIGTERM or SIGHUP runs
// the hooks and exits.
//
// Usage:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(history.Close)
//	go h.Listen(ctx)
//	defer h.Shutdown()
package shutdown

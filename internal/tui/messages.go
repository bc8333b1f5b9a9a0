package tui

import "github.com/database-playground/query-console/internal/console"

// resolvedMsg carries a finished backend call back into Update.
type resolvedMsg struct {
	req *console.Request
	res console.Resolution
}

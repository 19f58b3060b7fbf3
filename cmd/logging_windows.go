//go:build windows

package cmd

import (
	"github.com/samsched/samsched/common"
	"github.com/samsched/samsched/pkg/logger"
)

// systemLogger mirrors session warnings and errors to the Windows Event Log.
// It returns nil when the event source cannot be opened or registered.
func systemLogger() logger.Logger {
	el, err := logger.NewEventLogger(common.EventSourceName)
	if err != nil {
		return nil
	}
	return logger.NewQuietLogger(el)
}

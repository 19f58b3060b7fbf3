//go:build !windows

package cmd

import "github.com/samsched/samsched/pkg/logger"

func systemLogger() logger.Logger { return nil }

package cmd

import "github.com/ardnew/saiyan/lang"

// Command errors. Each is a [*lang.Error] sentinel; wrap the cause with
// Wrap and add context with With.
var (
	ErrOpenSource  = lang.NewError("open source file")
	ErrIsDirectory = lang.NewError("is a directory")
	ErrRun         = lang.NewError("run failed")
	ErrFormat      = lang.NewError("format failed")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
)

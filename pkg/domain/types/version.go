package types

import "github.com/m-mizutani/goerr/v2"

// Version is the build version, overridden with -ldflags "-X"
var Version = "dev"

// ErrTagConfig marks errors caused by missing or invalid configuration
var ErrTagConfig = goerr.NewTag("config")

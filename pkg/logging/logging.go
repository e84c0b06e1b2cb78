/*
Copyright 2026 The Actias Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging builds the root logr.Logger shared by every actias
// binary. It follows the teacher's zap.Options/ctrl.SetLogger indirection
// without depending on controller-runtime: a zap.Logger is built directly
// and bridged to logr via go-logr/zapr.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls root logger construction.
type Options struct {
	// Development enables human-readable, colorized console output instead
	// of JSON. Production binaries should leave this false.
	Development bool
	// Level is the minimum enabled zapcore.Level ("debug", "info", "warn", "error").
	Level string
}

// New builds the root logr.Logger for a binary named name (e.g. "worker",
// "script-service"). Every subsystem should derive from it with
// logger.WithName(subsystem) rather than build its own.
func New(name string, opts Options) (logr.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return logr.Logger{}, err
		}
	}

	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return logr.Logger{}, err
	}

	return zapr.NewLogger(zl).WithName(name), nil
}

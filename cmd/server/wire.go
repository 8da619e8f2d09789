// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/app"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/auth"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/billing"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/edit"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/export"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/firebase"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/gemini"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/jobs"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/platform/logger"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/profile"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		provideDatabase,
		provideCleanup,

		// Firebase identity
		firebase.NewService,

		// Profiles and credits
		profile.NewGORMRepository,
		profile.NewService,
		wire.Bind(new(shared.Service), new(*profile.ServiceImplementation)),

		// Session surface
		auth.NewHandler,
		wire.Bind(new(auth.SessionRevoker), new(*firebase.Service)),

		// Edits
		gemini.NewClient,
		wire.Bind(new(edit.Generator), new(*gemini.Client)),
		edit.NewGORMRepository,
		edit.NewService,
		edit.NewHandler,

		// Billing
		billing.NewRazorpayClient,
		wire.Bind(new(billing.Gateway), new(*billing.RazorpayClient)),
		billing.NewGORMRepository,
		billing.NewService,
		billing.NewHandler,

		// Exports
		export.NewDriveUploader,
		wire.Bind(new(export.Uploader), new(*export.DriveUploader)),
		export.NewService,
		export.NewHandler,

		// Jobs
		jobs.NewOrderExpiryJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}

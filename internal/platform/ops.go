package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/lessonkit/pkg/adapters/fs"
	"github.com/aretw0/lessonkit/pkg/bilingual"
	"github.com/aretw0/lessonkit/pkg/core"
)

// Init opens the lesson directory based on the provided configuration.
// The 'uri' argument is adapter-specific (a directory for 'fs').
//
// It returns the configured core.Repository.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRepository(uri, o)
}

func initRepository(uri string, o *options) (core.Repository, error) {
	// 1. Check for injected repository
	if o.repository != nil {
		return o.repository, nil
	}

	// 2. Initialize based on Adapter
	switch o.adapter {
	case "fs":
		repo, err := initFS(uri, o)
		if err != nil {
			return nil, err
		}
		// 3. Run Initialization
		if err := repo.Initialize(context.Background()); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// initFS maps the generic option bag onto the filesystem adapter's Config.
func initFS(path string, o *options) (*fs.Repository, error) {
	format, _ := o.config["format"].(string)
	extension, _ := o.config["extension"].(string)
	recursive, _ := o.config["recursive"].(bool)
	include, _ := o.config["include"].(string)
	manifest, _ := o.config["manifest"].(string)
	manageManifest, _ := o.config["manage_manifest"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	if path == "" {
		path = "."
	}
	locale := o.locale
	if locale == "" {
		locale = bilingual.DefaultLocale
	}

	if o.logger != nil {
		o.logger.Debug("opening lesson directory", "path", path, "format", format, "read_only", readOnly)
	}

	return fs.NewRepository(fs.Config{
		Path:            path,
		Format:          format,
		Extension:       extension,
		Recursive:       recursive,
		Include:         include,
		Manifest:        manifest,
		ManageManifest:  manageManifest,
		SecondaryLocale: locale,
		ReadOnly:        readOnly,
		MustExist:       mustExist,
		Logger:          o.logger,
		ErrorHandler:    errorHandler,
	})
}
